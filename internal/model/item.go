package model

// Item is a lost or found item report.
type Item struct {
	ID               int64  `json:"id"`
	Kind             string `json:"kind"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	Description      string `json:"description,omitempty"`
	ReporterName     string `json:"reporter_name"`
	ReporterContact  string `json:"reporter_contact"`
	ReportedDate     string `json:"reported_date"`
	Status           string `json:"status"`
	VerificationCode string `json:"-"`
	ImagePath        string `json:"image_path,omitempty"`

	// Claim metadata, empty until the item is claimed.
	ClaimerName    string `json:"claimer_name,omitempty"`
	ClaimerEmail   string `json:"claimer_email,omitempty"`
	ClaimerContact string `json:"claimer_contact,omitempty"`
	ClaimProof     string `json:"claim_proof,omitempty"`
	ClaimDate      string `json:"claim_date,omitempty"`
}

// Item kinds.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Item statuses. An item starts open and can only move to claimed.
const (
	StatusOpen    = "open"
	StatusClaimed = "claimed"
)

// OppositeKind returns the kind an item would be matched against.
func OppositeKind(kind string) string {
	if kind == KindLost {
		return KindFound
	}
	return KindLost
}

// MatchCandidate is an open item of the opposite kind annotated with a score.
type MatchCandidate struct {
	Item
	MatchScore int `json:"match_score"`
}

// Match scores. Category equality is required for any match at all.
const (
	ScoreCategory         = 10
	ScoreCategoryLocation = 20
)
