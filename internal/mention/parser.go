// Package mention turns the raw recipients field into mention targets.
package mention

import (
	"strings"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
)

// AllToken anywhere in the recipients field mentions every member.
const AllToken = "@all"

const phoneLength = 11

// Parser splits a recipients string into user and phone mentions.
//
// By default the phone check is applied to the whole raw string: a field that
// is exactly one 11-digit number is a phone mention, anything else is a list
// of user IDs. PerToken applies the same check to each comma-separated token.
type Parser struct {
	PerToken bool
}

// Parse is the default whole-field parser.
func Parse(raw string) model.MentionSpec {
	return Parser{}.Parse(raw)
}

// Parse classifies raw. It never fails; unknown tokens are user IDs.
func (p Parser) Parse(raw string) model.MentionSpec {
	spec := model.MentionSpec{
		UserMentions:  []string{},
		PhoneMentions: []string{},
	}
	if raw == "" {
		return spec
	}
	if strings.Contains(raw, AllToken) {
		spec.MentionAll = true
		return spec
	}

	wholeIsPhone := isPhone(raw)
	for _, token := range strings.Split(raw, ",") {
		if token == "" {
			continue
		}
		phone := wholeIsPhone
		if p.PerToken {
			phone = isPhone(token)
		}
		if phone {
			spec.PhoneMentions = append(spec.PhoneMentions, token)
		} else {
			spec.UserMentions = append(spec.UserMentions, token)
		}
	}
	return spec
}

func isPhone(s string) bool {
	if len(s) != phoneLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
