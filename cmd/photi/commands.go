package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/alloon/photi-go/apis"
	"github.com/jessevdk/go-flags"
	"modernc.org/fileutil"
)

func registerCommands(parser *flags.Parser) {
	commands := []struct {
		name, short string
		data        interface{}
	}{
		{"login", "Sign in with a username and password", &loginCommand{}},
		{"logout", "Sign out and forget the stored credential", &logoutCommand{}},
		{"refresh", "Exchange the refresh token for a new pair", &refreshCommand{}},
		{"status", "Show who is signed in and when the token expires", &statusCommand{}},
		{"popular", "List popular challenges", &popularCommand{}},
		{"search", "Search challenges by name", &searchCommand{}},
		{"challenge", "Show a challenge", &challengeCommand{}},
		{"join", "Join a challenge", &joinCommand{}},
		{"proof", "Upload a proof image to a challenge", &proofCommand{}},
		{"report", "Report a challenge, member or feed", &reportCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, "", c.data); err != nil {
			panic(err)
		}
	}
}

type loginCommand struct {
	Username string `short:"u" long:"username" required:"true" description:"account name"`
	Password string `short:"p" long:"password" env:"PHOTI_PASSWORD" required:"true" description:"account password"`
}

func (c *loginCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	result, err := s.Login(ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	return printJSON(result.User)
}

type logoutCommand struct{}

func (c *logoutCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	return s.SignOut(ctx)
}

type refreshCommand struct{}

func (c *refreshCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	if err = s.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "refreshed", s.Credential())
	return nil
}

type statusCommand struct{}

type status struct {
	BaseURL    string            `json:"baseUrl"`
	SignedIn   bool              `json:"signedIn"`
	Credential string            `json:"credential,omitempty"`
	ExpiresAt  *time.Time        `json:"expiresAt,omitempty"`
	Profile    *apis.UserProfile `json:"profile,omitempty"`
}

func (c *statusCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	st := status{BaseURL: s.BaseURL(), SignedIn: s.IsSignedIn()}
	if cred := s.Credential(); cred != nil {
		st.Credential = cred.String()
		if expiresAt, err := s.ExpiresAt(); err == nil {
			st.ExpiresAt = &expiresAt
		}
		if st.Profile, err = s.API().Me(ctx); err != nil {
			return err
		}
	}
	return printJSON(st)
}

type popularCommand struct{}

func (c *popularCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	challenges, err := s.API().PopularChallenges(ctx)
	if err != nil {
		return err
	}
	return printJSON(challenges)
}

type searchCommand struct {
	Page int `long:"page" default:"0" description:"page number, from 0"`
	Size int `long:"size" default:"10" description:"page size"`
	Args struct {
		Keyword string `positional-arg-name:"keyword" required:"yes"`
	} `positional-args:"yes"`
}

func (c *searchCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	page, err := s.API().SearchChallenges(ctx, apis.SearchChallengesRequest{Keyword: c.Args.Keyword, Page: c.Page, Size: c.Size})
	if err != nil {
		return err
	}
	return printJSON(page)
}

type challengeArgs struct {
	ChallengeID int64 `positional-arg-name:"challenge-id" required:"yes"`
}

type challengeCommand struct {
	Args challengeArgs `positional-args:"yes"`
}

func (c *challengeCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	challenge, err := s.API().GetChallenge(ctx, c.Args.ChallengeID)
	if err != nil {
		return err
	}
	return printJSON(challenge)
}

type joinCommand struct {
	Goal           string        `long:"goal" description:"personal goal for the challenge"`
	InvitationCode string        `long:"code" description:"invitation code of a private challenge"`
	Args           challengeArgs `positional-args:"yes"`
}

func (c *joinCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	return s.API().JoinChallenge(ctx, apis.JoinChallengeRequest{
		ChallengeID:    c.Args.ChallengeID,
		Goal:           c.Goal,
		InvitationCode: c.InvitationCode,
	})
}

type proofCommand struct {
	Args struct {
		ChallengeID int64  `positional-arg-name:"challenge-id" required:"yes"`
		Image       string `positional-arg-name:"image" required:"yes"`
	} `positional-args:"yes"`
}

func (c *proofCommand) Execute([]string) error {
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	file, err := os.Open(c.Args.Image)
	if err != nil {
		return err
	}
	defer file.Close()
	_ = fileutil.Fadvise(file, 0, 0, fileutil.POSIX_FADV_SEQUENTIAL)

	contentType := mime.TypeByExtension(filepath.Ext(file.Name()))
	feed, err := s.API().SubmitProof(ctx, apis.SubmitProofRequest{
		ChallengeID: c.Args.ChallengeID,
		FileName:    filepath.Base(file.Name()),
		ContentType: contentType,
		Image:       file,
	})
	if err != nil {
		return err
	}
	return printJSON(feed)
}

type reportCommand struct {
	Category string `long:"category" choice:"CHALLENGE" choice:"CHALLENGE_MEMBER" choice:"FEED" required:"true"`
	Reason   string `long:"reason" required:"true" description:"report reason code"`
	Content  string `long:"content" description:"free text, up to 120 characters"`
	Args     struct {
		TargetID int64 `positional-arg-name:"target-id" required:"yes"`
	} `positional-args:"yes"`
}

func (c *reportCommand) Execute([]string) error {
	if c.Args.TargetID <= 0 {
		return errors.New("target id must be positive")
	}
	ctx, cancel := commandContext()
	defer cancel()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	return s.API().Report(ctx, apis.ReportRequest{
		TargetID: c.Args.TargetID,
		Category: apis.ReportCategory(c.Category),
		Reason:   c.Reason,
		Content:  c.Content,
	})
}
