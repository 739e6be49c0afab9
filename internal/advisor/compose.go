package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

// Notification titles for the two advisory outcomes.
const (
	recommendationTitle = "Crop Advisory"
	rejectionTitle      = "Location Not Suitable"
)

// ComposeNotification summarizes an advisory as a deferred alert. A valid
// location gets the recommendation text; an invalid one always gets the
// rejection notice, never a partial recommendation. The same text is what
// an SMS collaborator would forward to the farmer.
func ComposeNotification(advisory domain.Advisory, fireAt time.Time) domain.AdvisoryNotification {
	if !advisory.Location.Valid {
		return domain.AdvisoryNotification{
			Title:  rejectionTitle,
			Body:   fmt.Sprintf("%s is not a recognized agricultural site. No crop recommendation is available.", advisory.Location.Name),
			FireAt: fireAt,
		}
	}

	body := fmt.Sprintf("Recommended crops for %s: %s.",
		advisory.Location.Name,
		strings.Join(advisory.Crops.Names(), ", "),
	)
	if len(advisory.Agrochemicals) > 0 {
		first := advisory.Agrochemicals[0]
		body += fmt.Sprintf(" Start with %s: fertilizers %s; pesticides %s.",
			first.Crop,
			strings.Join(first.Fertilizers, ", "),
			strings.Join(first.Pesticides, ", "),
		)
	}

	return domain.AdvisoryNotification{
		Title:  recommendationTitle,
		Body:   body,
		FireAt: fireAt,
	}
}
