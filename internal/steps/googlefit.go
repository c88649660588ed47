package steps

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/sadopc/lockin/internal/store"
)

const (
	fitScope     = "https://www.googleapis.com/auth/fitness.activity.read"
	authURL      = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL     = "https://oauth2.googleapis.com/token"
	revokeURL    = "https://oauth2.googleapis.com/revoke"
	aggregateURL = "https://www.googleapis.com/fitness/v1/users/me/dataset:aggregate"
)

// GoogleFit implements Provider against the Google Fit REST API with a PKCE
// authorization-code flow. Credentials live in the store; token refresh is
// handled by oauth2 and refreshed tokens are written back.
type GoogleFit struct {
	store    *store.Store
	cfg      *oauth2.Config
	verifier string
	client   *http.Client
}

func NewGoogleFit(st *store.Store, clientID string) *GoogleFit {
	return &GoogleFit{
		store: st,
		cfg: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL},
			Scopes:   []string{fitScope},
			// Out-of-band style: the user copies the code query param from
			// the redirect and pastes it into the settings form.
			RedirectURL: "http://localhost",
		},
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GoogleFit) Connected() bool {
	cred, err := g.store.GetCredential()
	return err == nil && cred != nil
}

// BeginAuthorization returns the consent URL the user should open. The PKCE
// verifier is held until CompleteAuthorization.
func (g *GoogleFit) BeginAuthorization() string {
	g.verifier = oauth2.GenerateVerifier()
	// The verifier is already crypto-random; state is derived from it.
	sum := sha256.Sum256([]byte(g.verifier))
	return g.cfg.AuthCodeURL(hex.EncodeToString(sum[:8]),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(g.verifier),
	)
}

// CompleteAuthorization exchanges the pasted code for tokens and stores the
// resulting credential.
func (g *GoogleFit) CompleteAuthorization(ctx context.Context, code string) error {
	if g.verifier == "" {
		return fmt.Errorf("%w: authorization was not started", ErrUnauthenticated)
	}
	tok, err := g.cfg.Exchange(ctx, strings.TrimSpace(code), oauth2.VerifierOption(g.verifier))
	if err != nil {
		return fmt.Errorf("%w: exchange code: %v", ErrUnauthenticated, err)
	}
	g.verifier = ""
	return g.store.SaveCredential(store.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
		Scope:        strings.Join(g.cfg.Scopes, " "),
	})
}

// token returns a live access token, refreshing and persisting it when the
// stored one has expired.
func (g *GoogleFit) token(ctx context.Context) (*oauth2.Token, error) {
	cred, err := g.store.GetCredential()
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNotConnected
	}

	stored := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.ExpiresAt,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)
	fresh, err := g.cfg.TokenSource(ctx, stored).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", ErrUnauthenticated, err)
	}

	if fresh.AccessToken != stored.AccessToken {
		logrus.Debug("google fit access token refreshed")
		refreshToken := fresh.RefreshToken
		if refreshToken == "" {
			refreshToken = cred.RefreshToken
		}
		err := g.store.SaveCredential(store.Credential{
			AccessToken:  fresh.AccessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    fresh.Expiry,
			Scope:        cred.Scope,
		})
		if err != nil {
			return nil, err
		}
	}
	return fresh, nil
}

type aggregateRequest struct {
	AggregateBy     []aggregateBy `json:"aggregateBy"`
	BucketByTime    bucketByTime  `json:"bucketByTime"`
	StartTimeMillis int64         `json:"startTimeMillis"`
	EndTimeMillis   int64         `json:"endTimeMillis"`
}

type aggregateBy struct {
	DataTypeName string `json:"dataTypeName"`
	DataSourceID string `json:"dataSourceId"`
}

type bucketByTime struct {
	DurationMillis int64 `json:"durationMillis"`
}

type aggregateResponse struct {
	Bucket []struct {
		Dataset []struct {
			Point []struct {
				Value []struct {
					IntVal int64 `json:"intVal"`
				} `json:"value"`
			} `json:"point"`
		} `json:"dataset"`
	} `json:"bucket"`
}

// FetchTodaySteps asks the aggregate endpoint for today's step delta,
// bucketed as a single day. A day with no data is zero steps.
func (g *GoogleFit) FetchTodaySteps(ctx context.Context) (int, error) {
	tok, err := g.token(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	body, err := json.Marshal(aggregateRequest{
		AggregateBy: []aggregateBy{{
			DataTypeName: "com.google.step_count.delta",
			DataSourceID: "derived:com.google.step_count.delta:com.google.android.gms:aggregated",
		}},
		BucketByTime:    bucketByTime{DurationMillis: 86400000},
		StartTimeMillis: midnight.UnixMilli(),
		EndTimeMillis:   now.UnixMilli(),
	})
	if err != nil {
		return 0, fmt.Errorf("encode aggregate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, aggregateURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build aggregate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, fmt.Errorf("%w: aggregate returned %s", ErrUnauthenticated, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("%w: aggregate returned %s", ErrNetwork, resp.Status)
	}

	var agg aggregateResponse
	if err := json.NewDecoder(resp.Body).Decode(&agg); err != nil {
		return 0, fmt.Errorf("decode aggregate response: %w", err)
	}
	if len(agg.Bucket) > 0 && len(agg.Bucket[0].Dataset) > 0 &&
		len(agg.Bucket[0].Dataset[0].Point) > 0 &&
		len(agg.Bucket[0].Dataset[0].Point[0].Value) > 0 {
		return int(agg.Bucket[0].Dataset[0].Point[0].Value[0].IntVal), nil
	}
	return 0, nil
}

// Disconnect revokes the token (best effort) and drops the credential.
func (g *GoogleFit) Disconnect(ctx context.Context) error {
	cred, err := g.store.GetCredential()
	if err != nil {
		return err
	}
	if cred == nil {
		return nil
	}

	form := url.Values{"token": {cred.AccessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err == nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if resp, rerr := g.client.Do(req); rerr != nil {
			logrus.WithError(rerr).Warn("revoke google fit token")
		} else {
			resp.Body.Close()
		}
	}

	return g.store.DeleteCredential()
}
