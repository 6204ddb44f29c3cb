package member

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/adrodovia/portal/core"
)

func newValidate() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	RegisterValidators(validate, translator)
	return validate
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`{"ID": 12, "nome": "Ana Souza", "Perfil": "pastor", "ATIVO": true, "FILHOS": null}`), &r)

	if assert.NoError(t, err) {
		assert.Equal(t, "12", r.Get("id"))
		assert.Equal(t, "Ana Souza", r.Name())
		assert.Equal(t, "Ana", r.FirstName())
		assert.Equal(t, RolePastor, r.Role())
		assert.Equal(t, "true", r.Get("ativo"))
		assert.Equal(t, "", r.Get("FILHOS"))
		assert.Equal(t, "", r.Get("missing"))
	}
}

func TestRecord_Role(t *testing.T) {
	tests := []struct {
		name  string
		rec   Record
		want  string
		staff bool
	}{
		{name: "default", rec: Record{"NOME": "Ana"}, want: RoleMember},
		{name: "pastor", rec: Record{"PERFIL": "PASTOR"}, want: RolePastor},
		{name: "secretaria", rec: Record{"PERFIL": " secretaria "}, want: RoleSecretaria, staff: true},
		{name: "admin", rec: Record{"PERFIL": "ADMIN"}, want: RoleAdmin, staff: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Role())
			assert.Equal(t, tt.staff, tt.rec.IsStaff())
			assert.True(t, tt.rec.HasAnyRole())
		})
	}
	assert.Equal(t, "Membro", Record{}.FirstName())
}

func TestRecord_Public(t *testing.T) {
	r := Record{"ID": "1", "senha": "123", "NOME": "Ana"}
	assert.Equal(t, Record{"NOME": "Ana"}, r.Public())
	assert.Len(t, r, 3)
}

func TestLogin_Validate(t *testing.T) {
	validate := newValidate()
	tests := []struct {
		name    string
		login   Login
		wantErr bool
	}{
		{name: "ok", login: Login{User: Record{"NOME": "Ana", "PERFIL": "PASTOR"}, Token: "t"}},
		{name: "no role", login: Login{User: Record{"NOME": "Ana"}}},
		{name: "lowercase role", login: Login{User: Record{"NOME": "Ana", "PERFIL": "admin"}}},
		{name: "missing name", login: Login{User: Record{"PERFIL": "ADMIN"}}, wantErr: true},
		{name: "unknown role", login: Login{User: Record{"NOME": "Ana", "PERFIL": "BISPO"}}, wantErr: true},
		{name: "no user", login: Login{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.login.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/painel/pastor", DashboardPath(RolePastor))
	assert.Equal(t, "/painel/secretaria", DashboardPath(RoleAdmin))
	assert.Equal(t, "/painel/secretaria", DashboardPath(RoleSecretaria))
	assert.Equal(t, "/painel/membro", DashboardPath(RoleMember))
	assert.Equal(t, "/painel/membro", DashboardPath(RoleCongregado))
}
