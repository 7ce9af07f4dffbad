package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/jmteo/gls-tracker/internal/site"
)

// TwitterNotifier posts newly awarded sites to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Notify posts one status per award
func (n *TwitterNotifier) Notify(awards []site.Awarded) error {
	for i, a := range awards {
		post := formatPost(&a)

		_, _, err := n.client.Statuses.Update(post, nil)
		if err != nil {
			return fmt.Errorf("failed to post for site %s: %w", a.Listing.Name, err)
		}

		// Rate limiting: wait between posts
		if i < len(awards)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatPost formats an awarded site as a post
func formatPost(a *site.Awarded) string {
	post := "New GLS site awarded!\n\n"
	post += fmt.Sprintf("Location: %s\n", a.Listing.Name)

	if a.Detail.Tenderer != "" {
		post += fmt.Sprintf("Awarded to: %s\n", a.Detail.Tenderer)
	}
	if a.Detail.TenderPrice != "" {
		post += fmt.Sprintf("Tender price: %s\n", a.Detail.TenderPrice)
	}
	if a.Detail.AwardDate != "" {
		post += fmt.Sprintf("Date of award: %s\n", a.Detail.AwardDate)
	}
	if a.Listing.DetailURL != "" {
		post += "\n" + a.Listing.DetailURL + "\n"
	}
	post += "\n#GLS #LandSales"

	// Twitter limit is 280 characters
	if len(post) > 280 {
		post = post[:277] + "..."
	}

	return post
}
