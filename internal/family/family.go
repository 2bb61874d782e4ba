package family

// Members maps the allowed sign-in emails to display names. Sign-in is
// rejected for any email not present here.
var Members = map[string]string{
	"maxlibrach@gmail.com":     "Max",
	"ashley.maheris@gmail.com": "Ashley",
	"glibrach@gmail.com":       "Giliah",
	"miriam.librach@gmail.com": "Miriam",
	"erez.nagar@gmail.com":     "Erez",
}

// RejectionMessage is shown when an email outside the allow-list signs in.
const RejectionMessage = "Sorry, this site is private to the Librach/Nagar family."

// Attendee is a selectable person on the memory form.
type Attendee struct {
	Name           string `json:"name"`
	DefaultChecked bool   `json:"defaultChecked"`
}

// Attendees is the roster offered when recording who was at the table.
var Attendees = []Attendee{
	{Name: "Max", DefaultChecked: true},
	{Name: "Ashley", DefaultChecked: true},
	{Name: "Giliah", DefaultChecked: true},
	{Name: "Miriam", DefaultChecked: true},
	{Name: "Erez", DefaultChecked: true},
	{Name: "Lucy", DefaultChecked: false},
	{Name: "Shoko", DefaultChecked: false},
	{Name: "Lavi", DefaultChecked: true},
	{Name: "Shai", DefaultChecked: true},
	{Name: "Cliff", DefaultChecked: true},
	{Name: "Haley", DefaultChecked: true},
	{Name: "Other", DefaultChecked: false},
}

// Holidays lists the holiday options for a Holiday Meal.
var Holidays = []string{
	"Rosh Hashanah",
	"Yom Kippur",
	"Sukkot",
	"Simchat Torah",
	"Shavuot",
	"Passover",
	"Purim",
	"Hanukkah",
	"Thanksgiving",
	"New Years",
	"Independence Day",
	"Memorial Day",
	"Labor Day",
	"Other",
}

// DisplayName returns the mapped display name for an allow-listed email.
func DisplayName(email string) (string, bool) {
	name, ok := Members[email]
	return name, ok
}
