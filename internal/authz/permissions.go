// internal/authz/permissions.go
package authz

// Возможности ролей. Каждая проверяется отдельно, иерархии нет.
const (
	ManageUsers      = "can_manage_users"
	ManageTeams      = "can_manage_teams"
	ManageEquipment  = "can_manage_equipment"
	ManageRequests   = "can_manage_requests"
	ManageSettings   = "can_manage_settings"
	ViewReports      = "can_view_reports"
	AssignRequests   = "can_assign_requests"
	CompleteRequests = "can_complete_requests"
)

var AllCapabilities = []string{
	ManageUsers,
	ManageTeams,
	ManageEquipment,
	ManageRequests,
	ManageSettings,
	ViewReports,
	AssignRequests,
	CompleteRequests,
}

var capabilityDescriptions = map[string]string{
	ManageUsers:      "Управление пользователями",
	ManageTeams:      "Управление командами",
	ManageEquipment:  "Управление оборудованием",
	ManageRequests:   "Управление заявками",
	ManageSettings:   "Настройки системы (стадии)",
	ViewReports:      "Просмотр отчётов и журнала",
	AssignRequests:   "Назначение заявок",
	CompleteRequests: "Завершение и списание заявок",
}

func Describe(capability string) string {
	return capabilityDescriptions[capability]
}

func IsCapability(name string) bool {
	_, ok := capabilityDescriptions[name]
	return ok
}
