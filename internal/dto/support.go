package dto

import "github.com/teDdyMucho/connectlove-sub001/internal/model"

// SupportActionRequest is the JSON body sent to the support action endpoint.
// The tier key must be absent entirely for plain follow/unfollow requests;
// sending it (even as null) tells the backend to touch the stored tier.
// Following is always present. Display names are nullable but always sent.
type SupportActionRequest struct {
	SupporterID   string      `json:"supporter_id"`
	CreatorID     string      `json:"creator_id"`
	SupporterName *string     `json:"supporter_name"`
	CreatorName   *string     `json:"creator_name"`
	Tier          *model.Tier `json:"tier,omitempty"`
	Following     bool        `json:"following"`
}

// SupportViewResponse is what the creator-page view gets: the reduced record
// (null when the pair has no history) and the tier that is actually active,
// which is null whenever the viewer is not currently following.
type SupportViewResponse struct {
	CreatorID  string               `json:"creator_id"`
	Record     *model.SupportRecord `json:"record"`
	ActiveTier *model.Tier          `json:"active_tier"`
}
