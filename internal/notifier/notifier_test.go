package notifier

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jmteo/gls-tracker/internal/site"
)

func sampleAward() site.Awarded {
	return site.Awarded{
		Listing: site.Listing{
			Name:      "Marina Gardens Lane",
			DetailURL: "https://www.ura.gov.sg/Corporate/Land-Sales/Sites/marina-gardens-lane",
		},
		Detail: site.Detail{
			Tenderer:    "Kingford Huray Development Pte Ltd",
			TenderPrice: "$1,034,000,000",
			AwardDate:   "2 Apr 2026",
		},
	}
}

func TestFormatPost(t *testing.T) {
	a := sampleAward()
	post := formatPost(&a)

	for _, want := range []string{
		"Location: Marina Gardens Lane",
		"Awarded to: Kingford Huray Development Pte Ltd",
		"Tender price: $1,034,000,000",
		"Date of award: 2 Apr 2026",
		a.Listing.DetailURL,
		"#GLS #LandSales",
	} {
		if !strings.Contains(post, want) {
			t.Errorf("post missing %q:\n%s", want, post)
		}
	}
	if len(post) > 280 {
		t.Errorf("post exceeds 280 characters: %d", len(post))
	}
}

func TestFormatPostOmitsEmptyFields(t *testing.T) {
	a := site.Awarded{Listing: site.Listing{Name: "Dover Road"}}
	post := formatPost(&a)

	if strings.Contains(post, "Awarded to:") || strings.Contains(post, "Tender price:") {
		t.Errorf("post should omit unknown fields:\n%s", post)
	}
	if !strings.Contains(post, "Location: Dover Road") {
		t.Errorf("post missing location:\n%s", post)
	}
}

func TestFormatPostTruncates(t *testing.T) {
	a := sampleAward()
	a.Detail.Tenderer = strings.Repeat("Very Long Consortium Name ", 20)
	post := formatPost(&a)

	if len(post) > 280 {
		t.Errorf("post exceeds 280 characters: %d", len(post))
	}
	if !strings.HasSuffix(post, "...") {
		t.Errorf("truncated post should end with ellipsis:\n%s", post)
	}
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewDryRunNotifierTo(&buf)

	if err := n.Notify([]site.Awarded{sampleAward(), sampleAward()}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "--- Post 1/2 ---") || !strings.Contains(out, "--- Post 2/2 ---") {
		t.Errorf("expected numbered posts:\n%s", out)
	}
	if !strings.Contains(out, "Marina Gardens Lane") {
		t.Errorf("expected post content:\n%s", out)
	}
	if !strings.Contains(out, "(Length:") {
		t.Errorf("expected length annotation:\n%s", out)
	}
}

func TestNewTwitterNotifierRequiresCredentials(t *testing.T) {
	for _, key := range []string{
		"TWITTER_API_KEY", "TWITTER_API_SECRET",
		"TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET",
	} {
		t.Setenv(key, "")
	}
	if _, err := NewTwitterNotifier(); err == nil {
		t.Fatal("expected error without credentials in the environment")
	}
}
