package domain

// Speaker is a person presenting at an event. Speakers are embedded in events and
// are not owned separately.
// swagger:model Speaker
type Speaker struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Title  string         `json:"title"`
	Bio    string         `json:"bio"`
	Image  string         `json:"image"`
	Social *SpeakerSocial `json:"social,omitempty"`
}

// SpeakerSocial holds optional profile links of a speaker.
type SpeakerSocial struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// SpeakerPatch is a partial speaker update. Nil fields are left unchanged.
type SpeakerPatch struct {
	Name   *string
	Title  *string
	Bio    *string
	Image  *string
	Social *SpeakerSocial
}

// Apply merges the patch into s.
func (p *SpeakerPatch) Apply(s *Speaker) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Bio != nil {
		s.Bio = *p.Bio
	}
	if p.Image != nil {
		s.Image = *p.Image
	}
	if p.Social != nil {
		social := *p.Social
		s.Social = &social
	}
}
