package apis

import (
	"io"
)

type HashTag struct {
	HashTag string `json:"hashtag"`
}

type Rule struct {
	Rule string `json:"rule"`
}

type MemberImage struct {
	MemberImage string `json:"memberImage"`
}

type ChallengeSummary struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	ImageURL         string        `json:"imageUrl"`
	EndDate          string        `json:"endDate"`
	HashTags         []HashTag     `json:"hashtags"`
	CurrentMemberCnt int           `json:"currentMemberCnt,omitempty"`
	MemberImages     []MemberImage `json:"memberImages,omitempty"`
}

type Challenge struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	IsPublic         bool      `json:"isPublic"`
	Goal             string    `json:"goal"`
	ProveTime        string    `json:"proveTime"`
	EndDate          string    `json:"endDate"`
	ImageURL         string    `json:"imageUrl"`
	Rules            []Rule    `json:"rules"`
	HashTags         []HashTag `json:"hashtags"`
	CurrentMemberCnt int       `json:"currentMemberCnt"`
}

// Slice is one page of a paged listing.
type Slice[T any] struct {
	Content []T  `json:"content"`
	First   bool `json:"first"`
	Last    bool `json:"last"`
}

type SearchChallengesRequest struct {
	Keyword string `validate:"required"`
	Page    int    `validate:"gte=0"`
	Size    int    `validate:"gte=0,lte=100"`
}

type JoinChallengeRequest struct {
	ChallengeID    int64  `json:"-" validate:"gt=0"`
	Goal           string `json:"goal,omitempty" validate:"max=30"`
	InvitationCode string `json:"invitationCode,omitempty"`
}

type SubmitProofRequest struct {
	ChallengeID int64  `validate:"gt=0"`
	FileName    string `validate:"required"`
	ContentType string
	Image       io.ReadSeekCloser `validate:"required"`
}

type Feed struct {
	ID        int64  `json:"id"`
	UserName  string `json:"username,omitempty"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdDateTime,omitempty"`
}
