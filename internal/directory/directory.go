// Package directory holds the static link lists, contact cards and brain
// teasers shown around the alert surfaces. The data is rendered as-is.
package directory

import (
	"slices"
	"time"
)

// Link is one card in a link directory.
type Link struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Href     string `json:"href" yaml:"href"`
	Icon     string `json:"icon" yaml:"icon"`
	Color    string `json:"color" yaml:"color"`
}

// Name identifies a directory.
type Name string

const (
	QuickLinks  Name = "quick"
	StaffLinks  Name = "staff"
	NewsLinks   Name = "news"
	SocialLinks Name = "social"
)

const brand = "brand-burgundy"

var directories = map[Name][]Link{
	QuickLinks: {
		{Title: "PowerSchool Parent", Href: "https://hcss.powerschool.com/public/", Icon: "user-group", Color: brand},
		{Title: "School Calendar", Href: "https://east.hampdencharter.org/wp-content/uploads/2025/06/HCSS-School-Calendar-25-26.pdf", Icon: "calendar", Color: brand},
		{Title: "School Webstore", Href: "https://hampdencharter.revtrak.net/", Icon: "wallet", Color: brand},
		{Title: "Athletics Store", Href: "https://www.tees413.com/hcsswolves/", Icon: "wallet", Color: brand},
		{Title: "HCSS Main Website", Href: "https://hampdencharter.org", Icon: "envelope", Color: brand},
		{Title: "Canvas Guide / Login", Href: "https://east.hampdencharter.org/wp-content/uploads/2021/08/Canvas-Parent-Access-Guide.pdf", Icon: "book-open", Color: brand},
		{Title: "Online Payments", Href: "https://hampdencharter.revtrak.net/school-fees#/list", Icon: "wallet", Color: brand},
	},
	StaffLinks: {
		{Title: "PowerSchool for Teachers", Subtitle: "Access the teacher portal.", Href: "https://hcss.powerschool.com/teachers", Icon: "user-group", Color: brand},
		{Title: "Faculty Intranet", Subtitle: "Internal resources and documents.", Href: "https://sites.google.com/a/hampdencharter.org/hcss-it-department-sample", Icon: "document-text", Color: brand},
		{Title: "Education Pulse", Subtitle: "Platform for educational insights.", Href: "https://educationpulse.org/", Icon: "chart-bar", Color: brand},
	},
	NewsLinks: {
		{Title: "High School News", Subtitle: "Latest updates from the high school.", Href: "https://east.hampdencharter.org/category/school-life/", Icon: "newspaper", Color: brand},
		{Title: "Middle School News", Subtitle: "Latest updates from the middle school.", Href: "https://west.hampdencharter.org/category/school-life/", Icon: "newspaper", Color: brand},
		{Title: "High School Events", Subtitle: "View the high school activity calendar.", Href: "https://east.hampdencharter.org/activity-calendar/", Icon: "calendar", Color: brand},
		{Title: "Middle School Events", Subtitle: "View the middle school activity calendar.", Href: "https://west.hampdencharter.org/activity-calendar/", Icon: "calendar", Color: brand},
	},
	SocialLinks: {
		{Title: "High School Instagram", Subtitle: "Follow @hampdencharter", Href: "https://www.instagram.com/hampdencharter", Icon: "instagram", Color: brand},
		{Title: "Middle School Instagram", Subtitle: "Follow @hcss_ms", Href: "https://www.instagram.com/hcss_ms", Icon: "instagram", Color: brand},
	},
}

// Names lists the directories in display order.
func Names() []Name {
	return []Name{QuickLinks, StaffLinks, NewsLinks, SocialLinks}
}

// Links returns a copy of the named directory.
func Links(name Name) ([]Link, bool) {
	links, ok := directories[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(links), true
}

// Contact is a school office card.
type Contact struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Fax     string `json:"fax"`
	Email   string `json:"email"`
}

// TelURI returns a tel: link with formatting stripped from the phone number.
func (c Contact) TelURI() string {
	digits := make([]byte, 0, len(c.Phone))
	for i := 0; i < len(c.Phone); i++ {
		if c.Phone[i] >= '0' && c.Phone[i] <= '9' {
			digits = append(digits, c.Phone[i])
		}
	}
	return "tel:" + string(digits)
}

var contacts = []Contact{
	{
		Name:    "High School (East)",
		Address: "511 Main Street, Chicopee, MA 01020",
		Phone:   "(413) 593-9700",
		Fax:     "(413) 593-9701",
		Email:   "info@hampdencharter.org",
	},
	{
		Name:    "Middle School (West)",
		Address: "20 Johnson Road, West Springfield, MA 01089",
		Phone:   "(413) 732-2200",
		Fax:     "(413) 732-2201",
		Email:   "info-ms@hampdencharter.org",
	},
}

// Contacts returns the school office cards.
func Contacts() []Contact {
	return slices.Clone(contacts)
}

// Teaser is a riddle with its answer.
type Teaser struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var teasers = []Teaser{
	{Question: "I have cities, but no houses. I have mountains, but no trees. I have water, but no fish. What am I?", Answer: "A map"},
	{Question: "What has to be broken before you can use it?", Answer: "An egg"},
	{Question: "What is full of holes but still holds water?", Answer: "A sponge"},
	{Question: "What question can you never answer yes to?", Answer: "Are you asleep yet?"},
	{Question: "What is always in front of you but can’t be seen?", Answer: "The future"},
	{Question: "What has a neck without a head, and a body without legs?", Answer: "A bottle"},
	{Question: "What can you catch, but not throw?", Answer: "A cold"},
	{Question: "What goes up but never comes down?", Answer: "Your age"},
	{Question: "A man who was outside in the rain without an umbrella or hat didn’t get a single hair on his head wet. Why?", Answer: "He was bald."},
	{Question: "What gets wet while drying?", Answer: "A towel"},
	{Question: "I am an odd number. Take away a letter and I become even. What number am I?", Answer: "Seven"},
	{Question: "If you drop me I’m sure to crack, but give me a smile and I’ll always smile back. What am I?", Answer: "A mirror"},
	{Question: "What building has the most stories?", Answer: "A library"},
	{Question: "What has one eye, but can’t see?", Answer: "A needle"},
	{Question: "What has many keys but can't open a single lock?", Answer: "A piano"},
}

// TeaserOfTheDay picks a teaser by calendar day, so everyone sees the same
// one on a given date.
func TeaserOfTheDay(now time.Time) Teaser {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return teasers[int(day%int64(len(teasers)))]
}

// Teasers returns every brain teaser.
func Teasers() []Teaser {
	return slices.Clone(teasers)
}
