package order

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amonks/shiftbook/settings"
)

func sampleOrder() Order {
	return Order{
		Customer:   "Müller",
		Employee:   "Jana",
		Phone:      "",
		Paid:       true,
		Patisserie: false,
		Date:       "2024-05-02",
		Time:       "10:30",
		Items:      "2x Baguette\nCroissant, Quiche <Lauch>",
	}
}

func TestValidate(t *testing.T) {
	if err := sampleOrder().Validate(); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}

	tests := []struct {
		name   string
		modify func(o *Order)
		want   error
	}{
		{"no date", func(o *Order) { o.Date = "" }, ErrMissingField},
		{"no time", func(o *Order) { o.Time = " " }, ErrMissingField},
		{"no customer", func(o *Order) { o.Customer = "" }, ErrMissingField},
		{"no items", func(o *Order) { o.Items = "\n" }, ErrMissingField},
		{"no employee", func(o *Order) { o.Employee = "" }, ErrMissingField},
		{"bad date", func(o *Order) { o.Date = "02.05.2024" }, ErrInvalidField},
		{"bad time", func(o *Order) { o.Time = "halb elf" }, ErrInvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleOrder()
			tt.modify(&o)
			if err := o.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBody(t *testing.T) {
	body := Body(sampleOrder())

	wantText := strings.Join([]string{
		"Name: Müller",
		"Mitarbeiter: Jana",
		"Telefon: –",
		"Bezahlt: Ja",
		"An Pâtisserie senden: Nein",
		"Abholen: 02.05.2024 10:30 Uhr",
		"",
		"Produkte:",
		"• 2x Baguette",
		"• Croissant",
		"• Quiche <Lauch>",
	}, "\n")
	if body.Text != wantText {
		t.Fatalf("text body:\n%s\nwant:\n%s", body.Text, wantText)
	}

	wantHTML := "Name: Müller<br>Mitarbeiter: Jana<br>Telefon: –<br>Bezahlt: Ja<br>" +
		"An Pâtisserie senden: Nein<br>Abholen: 02.05.2024 10:30 Uhr<br><br>Produkte:<br>" +
		"• 2x Baguette<br>• Croissant<br>• Quiche &lt;Lauch&gt;"
	if body.HTML != wantHTML {
		t.Fatalf("html body:\n%s\nwant:\n%s", body.HTML, wantHTML)
	}
}

func TestBodyPlaceholders(t *testing.T) {
	body := Body(Order{Date: "2024-05-02", Time: "09:00"})
	if !strings.HasPrefix(body.Text, "Name: —\nMitarbeiter: —\nTelefon: –") {
		t.Fatalf("expected placeholders, got %q", body.Text)
	}
}

func TestRecipients(t *testing.T) {
	r := settings.Recipients{Recipients: []string{"a@x"}, Patisserie: []string{"p@x"}}

	if got := Recipients(r, false); !reflect.DeepEqual(got, []string{"a@x"}) {
		t.Fatalf("got %v", got)
	}
	if got := Recipients(r, true); !reflect.DeepEqual(got, []string{"a@x", "p@x"}) {
		t.Fatalf("got %v", got)
	}
	if len(r.Recipients) != 1 {
		t.Fatal("expected settings not to be modified")
	}
}

func TestComposeURL(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	o := sampleOrder()
	link, err := ComposeURL(o, []string{"a@example.org", "p@example.org"}, berlin)
	if err != nil {
		t.Fatalf("ComposeURL: %v", err)
	}

	if !strings.HasPrefix(link, "https://outlook.live.com/calendar/0/deeplink/compose?rru=addevent&subject=M%C3%BCller&") {
		t.Fatalf("unexpected prefix: %s", link)
	}
	// 10:30 CEST is 08:30 UTC.
	if !strings.Contains(link, "&startdt=20240502T083000Z&enddt=20240502T090000Z&") {
		t.Fatalf("unexpected times: %s", link)
	}
	if !strings.HasSuffix(link, "&to=a%40example.org%2Cp%40example.org&bodyformat=HTML") {
		t.Fatalf("unexpected suffix: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := parsed.Query().Get("body"); got != Body(o).HTML {
		t.Fatalf("body did not round trip: %q", got)
	}
}

func TestComposeURLRejectsIncompleteOrder(t *testing.T) {
	o := sampleOrder()
	o.Items = ""
	if _, err := ComposeURL(o, nil, time.UTC); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestEncodeComponent(t *testing.T) {
	tests := map[string]string{
		"a b":          "a%20b",
		"a+b":          "a%2Bb",
		"(x)!*'":       "(x)!*'",
		"Bäcker & Co.": "B%C3%A4cker%20%26%20Co.",
		"a,b;c/d?":     "a%2Cb%3Bc%2Fd%3F",
	}
	for input, want := range tests {
		if got := EncodeComponent(input); got != want {
			t.Errorf("EncodeComponent(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDayViewURL(t *testing.T) {
	if got := DayViewURL("2024-05-02"); got != "https://outlook.live.com/calendar/view/day?startdt=2024-05-02" {
		t.Fatalf("got %s", got)
	}
}
