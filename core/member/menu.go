package member

// MenuItem is a sidebar entry.
type MenuItem struct {
	Label string
	Icon  string
	Path  string
}

var (
	ebdItem = MenuItem{Label: "Ir para EBD", Icon: "📖", Path: "/"}

	pastorMenu = []MenuItem{
		ebdItem,
		{Label: "Minha Agenda", Icon: "📅", Path: "/painel/pastor"},
		{Label: "Membros", Icon: "👥", Path: "/painel/pastor?tela=membros"},
	}
	staffMenu = []MenuItem{
		ebdItem,
		{Label: "Início", Icon: "🏠", Path: "/painel/secretaria"},
		{Label: "Gestão Membros", Icon: "👥", Path: "/painel/secretaria?tela=membros"},
		{Label: "Agenda Pastor", Icon: "👔", Path: "/painel/secretaria?tela=agenda"},
	}
	memberMenu = []MenuItem{
		ebdItem,
		{Label: "Início", Icon: "🏠", Path: "/painel/membro"},
		{Label: "Meus Dados", Icon: "👤", Path: "/meus-dados"},
		{Label: "Agenda Igreja", Icon: "📅", Path: "/painel/membro?tela=agenda"},
	}
)

// Menu returns the sidebar of role.
func Menu(role string) []MenuItem {
	switch role {
	case RolePastor:
		return pastorMenu
	case RoleSecretaria, RoleAdmin:
		return staffMenu
	}
	return memberMenu
}
