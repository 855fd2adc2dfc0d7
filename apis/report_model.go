package apis

type ReportCategory string

const (
	ReportCategoryChallenge       ReportCategory = "CHALLENGE"
	ReportCategoryChallengeMember ReportCategory = "CHALLENGE_MEMBER"
	ReportCategoryFeed            ReportCategory = "FEED"
)

type ReportRequest struct {
	TargetID int64          `json:"-" validate:"gt=0"`
	Category ReportCategory `json:"category" validate:"required,oneof=CHALLENGE CHALLENGE_MEMBER FEED"`
	Reason   string         `json:"reason" validate:"required"`
	Content  string         `json:"content" validate:"max=120"`
}
