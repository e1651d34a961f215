package user

// User is an inspector or office member of the organization. The id is a UUID
// generated when the user is created and is the value clients send in the
// X-User-Id header.
type User struct {
	Id          string
	Username    string
	DisplayName string
	Role        Role
	Settings    Settings
}

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInspector Role = "inspector"
	RoleOffice    Role = "office"
)

type Settings struct {
	Timezone       string
	GoogleCalendar GoogleCalendarSettings
}

type GoogleCalendarSettings struct {
	CalendarId string
}
