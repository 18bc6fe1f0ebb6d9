package seeders

import "maintenance-system/internal/authz"

var rolesData = []struct {
	Name         string
	Description  string
	Capabilities []string
}{
	{Name: "Admin", Description: "Полный доступ", Capabilities: authz.AllCapabilities},
	{Name: "Manager", Description: "Команды, оборудование, заявки и отчёты", Capabilities: []string{
		authz.ManageTeams, authz.ManageEquipment, authz.ManageRequests,
		authz.ViewReports, authz.AssignRequests, authz.CompleteRequests,
	}},
	{Name: "Technician", Description: "Работа с назначенными заявками", Capabilities: []string{authz.CompleteRequests}},
	{Name: "User", Description: "Создание и просмотр заявок", Capabilities: nil},
}

var stagesData = []struct {
	Name     string
	Sequence int
	Color    string
	IsDone   bool
	IsScrap  bool
	Fold     bool
}{
	{Name: "New", Sequence: 10, Color: "#6c757d"},
	{Name: "In Progress", Sequence: 20, Color: "#0d6efd"},
	{Name: "Waiting Parts", Sequence: 30, Color: "#ffc107"},
	{Name: "Under Review", Sequence: 40, Color: "#17a2b8"},
	{Name: "Completed", Sequence: 50, Color: "#28a745", IsDone: true, Fold: true},
	{Name: "Scrapped", Sequence: 60, Color: "#dc3545", IsScrap: true, Fold: true},
}

var usersData = []struct {
	Email    string
	FullName string
	Role     string
	Password string
}{
	{Email: "admin@gearguard.com", FullName: "System Admin", Role: "Admin", Password: "admin123"},
	{Email: "abhi.gabani@gearguard.com", FullName: "Gabani Abhi Dineshbhai", Role: "Manager", Password: "password123"},
	{Email: "preet.k@gearguard.com", FullName: "Preet Kakdiya", Role: "Technician", Password: "password123"},
	{Email: "tirth.g@gearguard.com", FullName: "Tirth Goyani", Role: "Technician", Password: "password123"},
	{Email: "rajesh.p@gearguard.com", FullName: "Rajesh Patel", Role: "Manager", Password: "password123"},
	{Email: "user@gearguard.com", FullName: "Demo User", Role: "User", Password: "user123"},
}

var teamsData = []struct {
	Name        string
	Description string
	Color       string
	LeaderName  string
	LeaderEmail string
}{
	{Name: "IT Support Team", Description: "Компьютеры, сети и офисная техника", Color: "#0d6efd", LeaderName: "Tirth Goyani", LeaderEmail: "tirth.g@gearguard.com"},
	{Name: "Mechanical Team", Description: "Производственные машины и транспорт", Color: "#dc3545", LeaderName: "Rajesh Patel", LeaderEmail: "rajesh.p@gearguard.com"},
	{Name: "Facilities Team", Description: "Здание, HVAC, электрика", Color: "#198754", LeaderName: "Gabani Abhi Dineshbhai", LeaderEmail: "abhi.gabani@gearguard.com"},
}

var teamMembersData = []struct {
	Team  string
	Name  string
	Email string
	Role  string
}{
	{"IT Support Team", "Preet Kakdiya", "preet.k@gearguard.com", "Technician"},
	{"IT Support Team", "Tirth Goyani", "tirth.g@gearguard.com", "Team Lead"},
	{"Mechanical Team", "Rajesh Patel", "rajesh.p@gearguard.com", "Team Lead"},
	{"Mechanical Team", "Vikram Singh", "", "Technician"},
	{"Facilities Team", "Amit Shah", "", "Electrician"},
}

var categoriesData = []struct {
	Name        string
	Description string
	Color       string
	Icon        string
}{
	{"Computers & Laptops", "Рабочие станции, ноутбуки и серверы", "#0d6efd", "bi-laptop"},
	{"Vehicles", "Погрузчики и транспорт", "#fd7e14", "bi-truck"},
	{"Production Machines", "Станки и роботы производственной линии", "#dc3545", "bi-gear-wide-connected"},
	{"HVAC Systems", "Вентиляция и кондиционирование", "#20c997", "bi-wind"},
	{"Office Equipment", "Принтеры и офисная техника", "#6f42c1", "bi-printer"},
	{"Safety Equipment", "Генераторы и аварийные системы", "#ffc107", "bi-shield-check"},
}

var equipmentData = []struct {
	Name         string
	Category     string
	Location     string
	Department   string
	OwnerName    string
	Status       string
	Manufacturer string
	Model        string
	Team         string
	Technician   string
}{
	{"Dell OptiPlex 7090", "Computers & Laptops", "Office Floor 1", "Engineering", "John Doe", "operational", "Dell", "OptiPlex 7090", "IT Support Team", "preet.k@gearguard.com"},
	{"HP EliteBook 840 G8", "Computers & Laptops", "Office Floor 2", "Sales", "Jane Smith", "operational", "HP", "EliteBook 840 G8", "IT Support Team", "tirth.g@gearguard.com"},
	{"Dell PowerEdge R740", "Computers & Laptops", "Server Room", "IT", "IT Department", "operational", "Dell", "PowerEdge R740", "IT Support Team", "tirth.g@gearguard.com"},
	{"Toyota Forklift 8FBN25", "Vehicles", "Warehouse", "Logistics", "Warehouse Team", "maintenance", "Toyota", "8FBN25", "Mechanical Team", ""},
	{"CNC Milling Machine", "Production Machines", "Production Floor", "Production", "Production Team", "operational", "Haas", "VF-2", "Mechanical Team", ""},
	{"Industrial Robot Arm", "Production Machines", "Assembly Line", "Production", "Production Team", "broken", "ABB", "IRB 6700", "Mechanical Team", ""},
	{"Central AC Unit - Building A", "HVAC Systems", "Rooftop", "Facilities", "Facilities Team", "operational", "Daikin", "VRV IV", "Facilities Team", ""},
	{"HP LaserJet Enterprise", "Office Equipment", "Print Room", "Admin", "Admin Team", "operational", "HP", "LaserJet M607", "IT Support Team", "preet.k@gearguard.com"},
	{"Emergency Generator", "Safety Equipment", "Basement", "Facilities", "Facilities Team", "operational", "Cummins", "C150D6", "Facilities Team", ""},
}
