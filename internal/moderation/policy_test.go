package moderation

import (
	"testing"

	"github.com/hitoshi/newsdesk/internal/model"
)

func TestIsModerator_InstitutionalEmail_ReturnsTrue(t *testing.T) {
	p := NewPolicy("ucdavis.edu")

	claim := &model.IdentityClaim{Email: "mod@ucdavis.edu"}
	if !p.IsModerator(claim) {
		t.Error("expected moderator for institutional email")
	}
}

func TestIsModerator_NonInstitutionalEmail_ReturnsFalse(t *testing.T) {
	p := NewPolicy("ucdavis.edu")

	claim := &model.IdentityClaim{Email: "reader@gmail.com"}
	if p.IsModerator(claim) {
		t.Error("expected non-moderator for outside email")
	}
}

func TestIsModerator_NilClaim_ReturnsFalse(t *testing.T) {
	p := NewPolicy("ucdavis.edu")

	if p.IsModerator(nil) {
		t.Error("nil claim must never be a moderator")
	}
}

func TestIsModerator_EmptyEmail_ReturnsFalse(t *testing.T) {
	p := NewPolicy("ucdavis.edu")

	claim := &model.IdentityClaim{Email: ""}
	if p.IsModerator(claim) {
		t.Error("empty email must never be a moderator")
	}
}

func TestIsModerator_EmptyDomain_ReturnsFalse(t *testing.T) {
	p := NewPolicy("")

	claim := &model.IdentityClaim{Email: "mod@ucdavis.edu"}
	if p.IsModerator(claim) {
		t.Error("empty domain config must grant no one")
	}
}

// ドメインがサフィックス一致でも"@"区切りでなければ許可しない
func TestIsModerator_SuffixWithoutAtBoundary_ReturnsFalse(t *testing.T) {
	p := NewPolicy("ucdavis.edu")

	tests := []string{
		"mod@evil-ucdavis.edu",
		"mod@notucdavis.edu",
		"ucdavis.edu", // "@"なし
	}
	for _, email := range tests {
		claim := &model.IdentityClaim{Email: email}
		if p.IsModerator(claim) {
			t.Errorf("IsModerator(%q) = true, want false", email)
		}
	}
}

func TestIsModerator_CaseInsensitive(t *testing.T) {
	p := NewPolicy("UCDavis.EDU")

	claim := &model.IdentityClaim{Email: "Mod@UCDAVIS.edu"}
	if !p.IsModerator(claim) {
		t.Error("domain comparison should be case-insensitive")
	}
}

func TestNewPolicy_StripsAtPrefix(t *testing.T) {
	p := NewPolicy("@ucdavis.edu")

	claim := &model.IdentityClaim{Email: "mod@ucdavis.edu"}
	if !p.IsModerator(claim) {
		t.Error("leading @ in config should be tolerated")
	}
}
