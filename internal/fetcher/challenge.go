package fetcher

import (
	"bytes"
)

// Challenge names an anti-bot interstitial served instead of real content.
type Challenge string

const (
	ChallengeReCaptcha  Challenge = "recaptcha"
	ChallengeHCaptcha   Challenge = "hcaptcha"
	ChallengeTurnstile  Challenge = "turnstile"
	ChallengeCloudflare Challenge = "cloudflare"
)

// challengeMarkers are checked in order against the lowercased body.
var challengeMarkers = []struct {
	kind    Challenge
	markers []string
}{
	{ChallengeTurnstile, []string{"cf-turnstile", "challenges.cloudflare.com/turnstile"}},
	{ChallengeHCaptcha, []string{"h-captcha", "hcaptcha.com/1/api.js"}},
	{ChallengeReCaptcha, []string{"g-recaptcha", "google.com/recaptcha/api.js"}},
	{ChallengeCloudflare, []string{"cf-browser-verification", "cf_chl_opt", "just a moment..."}},
}

// DetectChallenge reports which anti-bot challenge body contains, or "" if
// none is recognised.
func DetectChallenge(body []byte) Challenge {
	lower := bytes.ToLower(body)
	for _, c := range challengeMarkers {
		for _, m := range c.markers {
			if bytes.Contains(lower, []byte(m)) {
				return c.kind
			}
		}
	}
	return ""
}
