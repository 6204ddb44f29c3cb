package member

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core"
)

// Roles, as stored in the PERFIL field.
const (
	RolePastor     = "PASTOR"
	RoleSecretaria = "SECRETARIA"
	RoleAdmin      = "ADMIN"
	RoleMember     = "MEMBRO"
	RoleCongregado = "CONGREGADO"
)

var (
	// StaffRoles may manage members and the pastor's agenda.
	StaffRoles = []string{RoleSecretaria, RoleAdmin}
	// BoardRoles are counted as admins in the dashboard stats.
	BoardRoles = []string{RoleAdmin, RoleSecretaria, RolePastor}
	AllRoles   = []string{RolePastor, RoleSecretaria, RoleAdmin, RoleMember, RoleCongregado}

	ErrMissingSession = errors.New("missing session")
)

// Well known record keys.
const (
	KeyID       = "ID"
	KeyName     = "NOME"
	KeyRole     = "PERFIL"
	KeyPassword = "SENHA"
)

// Record is a member row as the API returns it: arbitrary upper-case keys with scalar values.
type Record map[string]string

// UnmarshalJSON accepts numbers, booleans and nulls as values.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]core.Text
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec := make(Record, len(raw))
	for k, v := range raw {
		rec[k] = v.String()
	}
	*r = rec
	return nil
}

// Get returns the value of key, matched case-insensitively. Missing keys are "".
func (r Record) Get(key string) string {
	if v, ok := r[key]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r Record) Name() string { return core.CleanString(r.Get(KeyName)) }

// FirstName returns the first word of the name, or "Membro".
func (r Record) FirstName() string {
	if fields := strings.Fields(r.Name()); len(fields) > 0 {
		return fields[0]
	}
	return "Membro"
}

// Role returns the upper-cased PERFIL, defaulting to RoleMember.
func (r Record) Role() string {
	role := strings.ToUpper(core.CleanString(r.Get(KeyRole)))
	if role == "" {
		return RoleMember
	}
	return role
}

// HasAnyRole reports whether the record's role is one of roles. No roles means any role.
func (r Record) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	role := r.Role()
	for _, want := range roles {
		if role == want {
			return true
		}
	}
	return false
}

func (r Record) IsPastor() bool { return r.Role() == RolePastor }
func (r Record) IsStaff() bool  { return r.HasAnyRole(StaffRoles...) }

// Public returns a copy of r without the fields that must never leave the server.
func (r Record) Public() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if strings.EqualFold(k, KeyID) || strings.EqualFold(k, KeyPassword) {
			continue
		}
		out[k] = v
	}
	return out
}

// Login is what the remote login endpoint hands over to the portal.
type Login struct {
	User  Record `json:"usuario"`
	Token string `json:"token"`
}

// loginUser holds the validated part of a Login's user record.
type loginUser struct {
	Name string `json:"NOME" validate:"required"`
	Role string `json:"PERFIL" validate:"omitempty,perfil"`
}

func (l *Login) Validate(v *validator.Validate) error {
	if l.User == nil {
		return ErrMissingSession
	}
	l.Token = core.CleanString(l.Token)
	return v.Struct(loginUser{
		Name: l.User.Name(),
		Role: strings.ToUpper(core.CleanString(l.User.Get(KeyRole))),
	})
}

// DashboardPath returns the landing page of role.
func DashboardPath(role string) string {
	switch role {
	case RolePastor:
		return "/painel/pastor"
	case RoleSecretaria, RoleAdmin:
		return "/painel/secretaria"
	}
	return "/painel/membro"
}
