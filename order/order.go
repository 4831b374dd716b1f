// Package order formats pickup orders as an email body and as an Outlook
// calendar deep link. Nothing here touches the store.
package order

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amonks/shiftbook/businessday"
	internalstrings "github.com/amonks/shiftbook/internal/strings"
	"github.com/amonks/shiftbook/settings"
)

const (
	composeBase = "https://outlook.live.com/calendar/0/deeplink/compose?rru=addevent"
	dayViewBase = "https://outlook.live.com/calendar/view/day?startdt="

	// TimeLayout is the layout of Order.Time.
	TimeLayout = "15:04"

	// Duration is the length of the calendar entry created for an order.
	Duration = 30 * time.Minute

	placeholder      = "—"
	phonePlaceholder = "–"
	bullet           = "• "
	utcLayout        = "20060102T150400Z"
)

var (
	// ErrMissingField is returned by Validate when a required field is blank.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField is returned by Validate when a field cannot be parsed.
	ErrInvalidField = errors.New("invalid field")
)

// Order is a customer's pickup order.
type Order struct {
	Customer   string
	Employee   string
	Phone      string
	Paid       bool
	Patisserie bool
	Date       businessday.Key
	// Time is the pickup time as HH:MM.
	Time  string
	Items string
}

// Validate checks that every required field is present and parseable.
func (o Order) Validate() error {
	var missing []string
	if o.Date == "" {
		missing = append(missing, "date")
	}
	if internalstrings.IsBlank(o.Time) {
		missing = append(missing, "time")
	}
	if internalstrings.IsBlank(o.Customer) {
		missing = append(missing, "customer")
	}
	if internalstrings.IsBlank(o.Items) {
		missing = append(missing, "items")
	}
	if internalstrings.IsBlank(o.Employee) {
		missing = append(missing, "employee")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	if _, err := businessday.ParseKey(string(o.Date)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	if _, err := time.Parse(TimeLayout, strings.TrimSpace(o.Time)); err != nil {
		return fmt.Errorf("%w: time %q: expected HH:MM", ErrInvalidField, o.Time)
	}
	return nil
}

// ItemList splits the items field on newlines and commas.
func (o Order) ItemList() []string {
	return internalstrings.SplitList(o.Items)
}

// Pickup returns the pickup time in loc.
func (o Order) Pickup(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(businessday.Layout+" "+TimeLayout, string(o.Date)+" "+strings.TrimSpace(o.Time), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: pickup %s %s", ErrInvalidField, o.Date, o.Time)
	}
	return t, nil
}

// EmailBody is an order rendered for an email client.
type EmailBody struct {
	HTML string
	Text string
}

// Body renders the order. Blank customer and employee names render as a
// dash so that a half-filled order can be previewed.
func Body(o Order) EmailBody {
	customer := orPlaceholder(o.Customer, placeholder)
	employee := orPlaceholder(o.Employee, placeholder)
	phone := orPlaceholder(o.Phone, phonePlaceholder)
	patisserie := "An Pâtisserie senden: " + yesNo(o.Patisserie)
	pickup := fmt.Sprintf("Abholen: %s %s Uhr", FormatDate(o.Date), strings.TrimSpace(o.Time))
	items := o.ItemList()

	htmlItems := make([]string, 0, len(items))
	textItems := make([]string, 0, len(items))
	for _, item := range items {
		htmlItems = append(htmlItems, bullet+escapeHTML(item))
		textItems = append(textItems, bullet+item)
	}

	htmlLines := []string{
		"Name: " + escapeHTML(customer),
		"Mitarbeiter: " + escapeHTML(employee),
		"Telefon: " + escapeHTML(phone),
		"Bezahlt: " + yesNo(o.Paid),
		patisserie,
		pickup,
		"",
		"Produkte:",
		strings.Join(htmlItems, "<br>"),
	}
	textLines := []string{
		"Name: " + customer,
		"Mitarbeiter: " + employee,
		"Telefon: " + phone,
		"Bezahlt: " + yesNo(o.Paid),
		patisserie,
		pickup,
		"",
		"Produkte:",
		strings.Join(textItems, "\n"),
	}

	return EmailBody{
		HTML: strings.Join(htmlLines, "<br>"),
		Text: strings.Join(textLines, "\n"),
	}
}

// Recipients returns the addresses for an order: the base list, plus the
// patisserie list when the order is flagged for the patisserie.
func Recipients(r settings.Recipients, patisserie bool) []string {
	out := append([]string{}, r.Recipients...)
	if patisserie {
		out = append(out, r.Patisserie...)
	}
	return out
}

// ComposeURL returns an Outlook link that opens a new calendar event for the
// order. The pickup time is read in loc and sent as UTC.
func ComposeURL(o Order, recipients []string, loc *time.Location) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	start, err := o.Pickup(loc)
	if err != nil {
		return "", err
	}
	end := start.Add(Duration)

	var b strings.Builder
	b.WriteString(composeBase)
	b.WriteString("&subject=" + EncodeComponent(strings.TrimSpace(o.Customer)))
	b.WriteString("&startdt=" + start.UTC().Format(utcLayout))
	b.WriteString("&enddt=" + end.UTC().Format(utcLayout))
	b.WriteString("&body=" + EncodeComponent(Body(o).HTML))
	b.WriteString("&to=" + EncodeComponent(strings.Join(recipients, ",")))
	b.WriteString("&bodyformat=HTML")
	return b.String(), nil
}

// DayViewURL returns an Outlook link to the calendar day of key.
func DayViewURL(key businessday.Key) string {
	return dayViewBase + string(key)
}

// FormatDate renders a day as DD.MM.YYYY. Unparseable keys are returned as is.
func FormatDate(key businessday.Key) string {
	t := key.Time(time.UTC)
	if t.IsZero() {
		return string(key)
	}
	return t.Format("02.01.2006")
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent escapes value for use inside a query parameter, leaving the
// same characters unescaped as browsers do for URI components.
func EncodeComponent(value string) string {
	return componentUnescaper.Replace(url.QueryEscape(value))
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(value string) string {
	return htmlEscaper.Replace(value)
}

func orPlaceholder(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func yesNo(v bool) string {
	if v {
		return "Ja"
	}
	return "Nein"
}
