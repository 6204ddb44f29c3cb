package member

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FieldFormat tells how a profile value is displayed.
type FieldFormat int

const (
	FormatText FieldFormat = iota
	FormatDate
	FormatCPF
	FormatList
)

type (
	// Field is an allow-listed record key and its label.
	Field struct {
		Key    string
		Label  string
		Span   int // grid columns, out of 12
		Format FieldFormat
	}

	Section struct {
		Title  string
		Fields []Field
	}

	// ProfileField is a Field filled from a record, ready for display.
	ProfileField struct {
		Label  string
		Span   int
		Values []string
	}

	ProfileSection struct {
		Title  string
		Fields []ProfileField
	}
)

var (
	memberSections = []Section{
		{
			Title: "Informações Básicas",
			Fields: []Field{
				{Key: "NOME", Label: "Nome Completo", Span: 12},
				{Key: "NASCIMENTO", Label: "Data de Nascimento", Span: 6, Format: FormatDate},
				{Key: "CPF", Label: "CPF", Span: 6, Format: FormatCPF},
				{Key: "ESTADO_CIVIL", Label: "Estado Civil", Span: 6},
				{Key: "CONTATO", Label: "WhatsApp/Telefone", Span: 6},
			},
		},
		{
			Title: "Família e Filiação",
			Fields: []Field{
				{Key: "PAI", Label: "Nome do Pai", Span: 6},
				{Key: "MAE", Label: "Nome da Mãe", Span: 6},
				{Key: "CONJUGE", Label: "Cônjuge", Span: 6},
				{Key: "DATA_CASAMENTO", Label: "Data de Casamento", Span: 6, Format: FormatDate},
				{Key: "FILHOS", Label: "Filhos", Span: 6, Format: FormatList},
			},
		},
		{
			Title: "Endereço e Profissão",
			Fields: []Field{
				{Key: "ENDERECO", Label: "Endereço Residencial", Span: 12},
				{Key: "PROFISSAO", Label: "Profissão", Span: 6},
				{Key: "SITUACAO_TRABALHO", Label: "Situação Atual", Span: 6},
			},
		},
		{
			Title: "Dados Eclesiásticos",
			Fields: []Field{
				{Key: "CARGO", Label: "Cargo Atual", Span: 6},
				{Key: "DEPARTAMENTO", Label: "Departamento", Span: 6},
			},
		},
	}

	accessSection = Section{
		Title: "Acesso ao Sistema",
		Fields: []Field{
			{Key: "PERFIL", Label: "Perfil de Acesso", Span: 6},
		},
	}

	// profileSections is the allow-list of what each role sees of its own record.
	// ID and SENHA are never listed.
	profileSections = map[string][]Section{
		RolePastor:     append(memberSections[:len(memberSections):len(memberSections)], accessSection),
		RoleSecretaria: append(memberSections[:len(memberSections):len(memberSections)], accessSection),
		RoleAdmin:      append(memberSections[:len(memberSections):len(memberSections)], accessSection),
		RoleMember:     memberSections,
		RoleCongregado: memberSections,
	}

	nonDigit = regexp.MustCompile(`\D`)
)

// Sections returns the allow-listed profile sections of role. Unknown roles get the member sections.
func Sections(role string) []Section {
	if sections, ok := profileSections[role]; ok {
		return sections
	}
	return memberSections
}

// Profile fills the sections allowed for the record's role. Empty fields and sections are left out.
func Profile(r Record) []ProfileSection {
	var out []ProfileSection
	for _, sec := range Sections(r.Role()) {
		ps := ProfileSection{Title: sec.Title}
		for _, f := range sec.Fields {
			val := strings.TrimSpace(r.Get(f.Key))
			if val == "" {
				continue
			}
			ps.Fields = append(ps.Fields, ProfileField{Label: f.Label, Span: f.Span, Values: formatValue(val, f.Format)})
		}
		if len(ps.Fields) > 0 {
			out = append(out, ps)
		}
	}
	return out
}

func formatValue(val string, format FieldFormat) []string {
	switch format {
	case FormatCPF:
		return []string{FormatCPFNumber(val)}
	case FormatDate:
		return []string{FormatDateBR(val)}
	case FormatList:
		return SplitList(val)
	}
	return []string{val}
}

// FormatCPFNumber masks a CPF as ddd.ddd.ddd-dd, left padding it with zeros.
// Numbers longer than 11 digits are returned as bare digits.
func FormatCPFNumber(val string) string {
	cpf := nonDigit.ReplaceAllString(val, "")
	if len(cpf) < 11 {
		cpf = strings.Repeat("0", 11-len(cpf)) + cpf
	}
	if len(cpf) != 11 {
		return cpf
	}
	return fmt.Sprintf("%s.%s.%s-%s", cpf[:3], cpf[3:6], cpf[6:9], cpf[9:])
}

// FormatDateBR displays ISO dates as DD/MM/YYYY. Values already in that format, or unparseable, are kept.
func FormatDateBR(val string) string {
	if strings.Count(val, "/") == 2 {
		return val
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, val); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return val
}

// SplitList splits comma separated values. Values without commas are a single item.
func SplitList(val string) []string {
	if !strings.Contains(val, ",") {
		return []string{val}
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
