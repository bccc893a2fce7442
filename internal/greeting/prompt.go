// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package greeting

import (
	"fmt"
	"strings"
)

// occasionStyle is the wording used for one family of occasions.
type occasionStyle struct {
	match     []string
	kind      string // e.g. "birthday" in "Add elegant birthday text"
	heading   func(recipient string) string
	font      string
	message   string
	closing   string
	aesthetic string
}

var occasionStyles = []occasionStyle{
	{
		match:     []string{"birthday"},
		kind:      "birthday",
		heading:   func(r string) string { return "Happy Birthday " + r },
		font:      "a classy, celebratory font with a refined and modern look",
		message:   "May God bless you with joy, good health, and great success in all that you do.",
		closing:   "Warm wishes from",
		aesthetic: "a premium birthday greeting aesthetic",
	},
	{
		match:     []string{"promotion"},
		kind:      "congratulatory",
		heading:   func(string) string { return "Congratulations on Your Promotion" },
		font:      "a classy, professional font with a refined and modern corporate look",
		message:   "Your dedication, hard work, and talent have truly paid off. Wishing you continued growth and success in your new role.",
		closing:   "Best wishes from",
		aesthetic: "a premium congratulatory aesthetic",
	},
	{
		match:     []string{"festival"},
		kind:      "festive greeting",
		heading:   func(string) string { return "Warm Festival Wishes" },
		font:      "a classy, celebratory font with a refined and modern festive look",
		message:   "May this festive season fill your life with happiness, peace, and prosperity.",
		closing:   "With warm regards from",
		aesthetic: "a premium festive greeting aesthetic",
	},
	{
		match:     []string{"newyear", "new year"},
		kind:      "New Year greeting",
		heading:   func(string) string { return "Happy New Year" },
		font:      "a classy, celebratory font with a refined and modern look",
		message:   "May the new year bring new opportunities, good health, happiness, and success in every step of your journey.",
		closing:   "Best wishes from",
		aesthetic: "a premium New Year greeting aesthetic",
	},
	{
		match:     []string{"christmas"},
		kind:      "Christmas greeting",
		heading:   func(string) string { return "Merry Christmas" },
		font:      "a classy, warm, and festive font with a refined modern look",
		message:   "May this Christmas bring you joy, peace, love, and beautiful moments with your loved ones.",
		closing:   "Warm wishes from",
		aesthetic: "a premium Christmas greeting aesthetic",
	},
	{
		match:     []string{"anniversary"},
		kind:      "anniversary greeting",
		heading:   func(string) string { return "Happy Anniversary" },
		font:      "a classy, romantic font with a refined and modern look",
		message:   "Wishing you both a lifetime of love, understanding, and beautiful memories together.",
		closing:   "Warm wishes from",
		aesthetic: "a premium anniversary greeting aesthetic",
	},
	{
		match:     []string{"congratulations", "congrats"},
		kind:      "congratulatory",
		heading:   func(string) string { return "Congratulations" },
		font:      "a classy, confident font with a refined and modern look",
		message:   "Your achievement is a result of your dedication and perseverance. Wishing you continued success ahead.",
		closing:   "Best wishes from",
		aesthetic: "a premium congratulatory aesthetic",
	},
}

const (
	defaultRecipient = "Friend"
	defaultSender    = "the team"
	keepBackground   = "Do not modify or replace the original background."
	balanceText      = "Ensure the text is well-aligned, visually balanced, and blends naturally with the image."
)

// Prompt builds the image-editing instruction for a request. The wording
// depends on the occasion; unknown occasions get a generic instruction.
func Prompt(req Request) string {
	occ := strings.ToLower(strings.TrimSpace(req.Occasion))
	recipient := orDefault(req.RecipientName, defaultRecipient)
	sender := orDefault(req.SenderName, defaultSender)

	for _, st := range occasionStyles {
		if !containsAny(occ, st.match) {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Add elegant %s text to the existing image without altering the background or layout. ", st.kind)
		fmt.Fprintf(&b, "Main heading text: %q styled in %s. ", st.heading(recipient), st.font)
		fmt.Fprintf(&b, "Subtext message: %q ", orDefault(req.Message, st.message))
		fmt.Fprintf(&b, "Closing line: %q placed neatly below the message in a subtle yet readable font. ", st.closing+" "+sender)
		b.WriteString(balanceText + " ")
		fmt.Fprintf(&b, "Maintain high readability, professional spacing, and %s. ", st.aesthetic)
		b.WriteString(keepBackground)
		writeTone(&b, req.Tone)
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Add elegant greeting text for %s to the existing image without altering the background or layout. ", orDefault(occ, "a special occasion"))
	fmt.Fprintf(&b, "Main heading text should include the name %q. ", recipient)
	fmt.Fprintf(&b, "Subtext message: %q ", orDefault(req.Message, "Warm wishes to you."))
	fmt.Fprintf(&b, "Closing line: %q. ", "Best wishes from "+sender)
	b.WriteString(balanceText + " ")
	b.WriteString("Maintain high readability, professional spacing. " + keepBackground)
	writeTone(&b, req.Tone)
	return b.String()
}

func writeTone(b *strings.Builder, tone string) {
	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(b, " Keep the tone %s.", strings.ToLower(tone))
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
