package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile(t *testing.T) {
	rec := Record{
		"ID":         "42",
		"SENHA":      "segredo",
		"NOME":       "Ana Souza",
		"cpf":        "1234567890",
		"NASCIMENTO": "1990-12-25",
		"FILHOS":     "Davi, Lia,",
		"CARGO":      "Diaconisa",
		"FOTO":       "https://example.com/a.png",
	}

	sections := Profile(rec)

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
		for _, f := range s.Fields {
			for _, v := range f.Values {
				assert.NotContains(t, []string{"42", "segredo", "https://example.com/a.png"}, v)
			}
		}
	}
	assert.Equal(t, []string{"Informações Básicas", "Família e Filiação", "Dados Eclesiásticos"}, titles)
	assert.Equal(t, []ProfileField{
		{Label: "Nome Completo", Span: 12, Values: []string{"Ana Souza"}},
		{Label: "Data de Nascimento", Span: 6, Values: []string{"25/12/1990"}},
		{Label: "CPF", Span: 6, Values: []string{"012.345.678-90"}},
	}, sections[0].Fields)
	assert.Equal(t, []string{"Davi", "Lia"}, sections[1].Fields[0].Values)
}

func TestProfile_staffSeesAccess(t *testing.T) {
	sections := Profile(Record{"NOME": "Rui", "PERFIL": "ADMIN"})
	if assert.Len(t, sections, 2) {
		assert.Equal(t, "Acesso ao Sistema", sections[1].Title)
	}
	assert.Len(t, Profile(Record{"NOME": "Rui", "PERFIL": "MEMBRO"}), 1)
	assert.Len(t, Sections("BISPO"), 4)
	assert.Len(t, Sections(RoleMember), 4)
}

func TestFormatCPFNumber(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "123.456.789-01", want: "123.456.789-01"},
		{in: "12345678901", want: "123.456.789-01"},
		{in: "345678901", want: "003.456.789-01"},
		{in: "123456789012", want: "123456789012"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatCPFNumber(tt.in); got != tt.want {
				t.Errorf("FormatCPFNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDateBR(t *testing.T) {
	assert.Equal(t, "25/12/1990", FormatDateBR("25/12/1990"))
	assert.Equal(t, "25/12/1990", FormatDateBR("1990-12-25"))
	assert.Equal(t, "25/12/1990", FormatDateBR("1990-12-25T00:00:00Z"))
	assert.Equal(t, "natal", FormatDateBR("natal"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Davi"}, SplitList("Davi"))
	assert.Equal(t, []string{"Davi", "Lia"}, SplitList(" Davi , Lia"))
}

func TestMenu(t *testing.T) {
	labels := func(items []MenuItem) []string {
		var out []string
		for _, i := range items {
			out = append(out, i.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Ir para EBD", "Minha Agenda", "Membros"}, labels(Menu(RolePastor)))
	assert.Equal(t, []string{"Ir para EBD", "Início", "Gestão Membros", "Agenda Pastor"}, labels(Menu(RoleSecretaria)))
	assert.Equal(t, labels(Menu(RoleSecretaria)), labels(Menu(RoleAdmin)))
	assert.Equal(t, []string{"Ir para EBD", "Início", "Meus Dados", "Agenda Igreja"}, labels(Menu(RoleMember)))
}
