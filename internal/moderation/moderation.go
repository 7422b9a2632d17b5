// Package moderation screens user-written forum Markdown before it is stored.
package moderation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrProfanity is wrapped by *ProfanityError.
	ErrProfanity = errors.New("moderation: inappropriate language")
	// ErrUnsafeImage is returned for image sources with a disallowed scheme.
	ErrUnsafeImage = errors.New("Only http(s) images are allowed")
	// ErrInvalidImageURL is returned for image sources that do not parse.
	ErrInvalidImageURL = errors.New("Invalid image URL")
)

// Words lists the blocked terms, lower case, single tokens only.
var Words = []string{"ass", "fuck", "shit", "bitch"}

var wordPatterns = compileWords(Words)

// A word counts only when it is bounded by the text edges or by characters
// outside [\pL\pN_].
func compileWords(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`(?i)(?:^|[^\pL\pN_])(`+regexp.QuoteMeta(w)+`)(?:$|[^\pL\pN_])`))
	}
	return out
}

// ProfanityError names the first blocked word found.
type ProfanityError struct {
	Word string
}

func (e *ProfanityError) Error() string {
	return fmt.Sprintf("Reply contains inappropriate language: “%s”.", e.Word)
}

func (e *ProfanityError) Unwrap() error { return ErrProfanity }

// FindProfanity returns the first blocked word in text as written, or "".
func FindProfanity(text string) string {
	for _, re := range wordPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// EnsureClean returns a *ProfanityError when text contains a blocked word.
func EnsureClean(text string) error {
	if hit := FindProfanity(text); hit != "" {
		return &ProfanityError{Word: hit}
	}
	return nil
}

var (
	markdownImage = regexp.MustCompile(`(?i)!\[[^\]]*\]\(([^)]+)\)`)
	htmlImage     = regexp.MustCompile(`(?i)<img\b[^>]*\ssrc=["']([^"']+)["']`)
)

// CheckImages rejects Markdown and HTML images whose source is not http,
// https or scheme-relative.
func CheckImages(markdown string) error {
	for _, re := range []*regexp.Regexp{markdownImage, htmlImage} {
		for _, m := range re.FindAllStringSubmatch(markdown, -1) {
			if err := checkImageSource(m[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkImageSource(src string) error {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ErrInvalidImageURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "":
		return nil
	}
	return ErrUnsafeImage
}

// Check runs every content rule on a post body.
func Check(markdown string) error {
	if err := EnsureClean(markdown); err != nil {
		return err
	}
	return CheckImages(markdown)
}
