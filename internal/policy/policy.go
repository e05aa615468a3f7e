// Package policy holds the usage and entitlement rules as pure functions over
// a user record and a proposed action. It owns no state: counters live on the
// user and are advanced by the workflows only after success.
package policy

import "creativesuite/internal/domain"

// Free-tier limits. Premium accounts are unlimited on all of them.
const (
	FreeGenerationLimit = 100
	FreeProjectLimit    = 5
	FreeDocumentLimit   = 3
	FreeVersionLimit    = 5
)

// Feature names premium-only tools for RequirePremium.
type Feature string

const (
	FeatureVideoGeneration Feature = "video generation"
	FeatureContinueWriting Feature = "continue writing"
	FeatureCodeTranslation Feature = "code translation"
	FeatureSandboxAI       Feature = "sandbox AI generation"
	FeatureZipExport       Feature = "ZIP export"
)

// Denial carries the user-facing reason for a rejected action and whether the
// rejection should be presented with an upgrade prompt.
type Denial struct {
	Reason string
	Upsell bool
}

func (d *Denial) Error() string {
	return d.Reason
}

// CanGenerate gates a media generation attempt against the monthly free quota.
func CanGenerate(u domain.User) error {
	if !u.IsPremium && u.Usage.Generations >= FreeGenerationLimit {
		return &Denial{Reason: "You have reached your monthly generation limit.", Upsell: true}
	}
	return nil
}

// CanGenerateVideo gates video generation, which is premium-only regardless
// of remaining quota.
func CanGenerateVideo(u domain.User) error {
	if !u.IsPremium {
		return &Denial{Reason: "Video generation is a premium feature.", Upsell: true}
	}
	return CanGenerate(u)
}

// CanCreateProject gates project creation against the current project count.
func CanCreateProject(u domain.User, projectCount int) error {
	if !u.IsPremium && projectCount >= FreeProjectLimit {
		return &Denial{Reason: "Free users can create up to 5 projects. Please upgrade.", Upsell: true}
	}
	return nil
}

// CanCreateDocument gates studio document creation against the current count.
func CanCreateDocument(u domain.User, documentCount int) error {
	if !u.IsPremium && documentCount >= FreeDocumentLimit {
		return &Denial{Reason: "Free users can create up to 3 documents. Please upgrade.", Upsell: true}
	}
	return nil
}

// VersionHistoryLimit reports how many document snapshots the user retains;
// zero means unlimited.
func VersionHistoryLimit(u domain.User) int {
	if u.IsPremium {
		return 0
	}
	return FreeVersionLimit
}

// RequirePremium denies a premium-only tool outright for free accounts.
func RequirePremium(u domain.User, feature Feature) error {
	if !u.IsPremium {
		return &Denial{Reason: "This is a premium feature: " + string(feature) + ".", Upsell: true}
	}
	return nil
}
