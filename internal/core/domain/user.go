package domain

// Role is the fixed enumeration of account roles issued by the backend.
type Role string

const (
	RoleCaretaker    Role = "Caretaker"
	RoleFamilyMember Role = "Family Member"
	RoleElderly      Role = "Elderly"
)

// PortalAllowed reports whether the role may sign in to the web portal.
// Elderly accounts use the mobile app instead.
func (r Role) PortalAllowed() bool {
	return r == RoleCaretaker || r == RoleFamilyMember
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCaretaker, RoleFamilyMember, RoleElderly:
		return true
	}
	return false
}

// UserProfile is the identity half of a Session, persisted verbatim under the
// userData key.
type UserProfile struct {
	ID                 int64   `json:"user_id"`
	Email              string  `json:"email"`
	Fullname           string  `json:"fullname"`
	Role               Role    `json:"role"`
	ProfilePicture     *string `json:"profile_picture"`
	MemoryCount        *int    `json:"memory_count,omitempty"`
	CollaborationCount *int    `json:"collaboration_count,omitempty"`
}

// ProfilePatch carries a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Email              *string `json:"email,omitempty"`
	Fullname           *string `json:"fullname,omitempty"`
	ProfilePicture     *string `json:"profile_picture,omitempty"`
	MemoryCount        *int    `json:"memory_count,omitempty"`
	CollaborationCount *int    `json:"collaboration_count,omitempty"`
}

// Merge returns a copy of p with every non-nil field of patch applied.
// Identifier and role are never changed by a patch.
func (p UserProfile) Merge(patch ProfilePatch) UserProfile {
	out := p.Clone()
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Fullname != nil {
		out.Fullname = *patch.Fullname
	}
	if patch.ProfilePicture != nil {
		v := *patch.ProfilePicture
		out.ProfilePicture = &v
	}
	if patch.MemoryCount != nil {
		v := *patch.MemoryCount
		out.MemoryCount = &v
	}
	if patch.CollaborationCount != nil {
		v := *patch.CollaborationCount
		out.CollaborationCount = &v
	}
	return out
}

// Clone deep-copies the optional pointer fields.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.ProfilePicture != nil {
		v := *p.ProfilePicture
		out.ProfilePicture = &v
	}
	if p.MemoryCount != nil {
		v := *p.MemoryCount
		out.MemoryCount = &v
	}
	if p.CollaborationCount != nil {
		v := *p.CollaborationCount
		out.CollaborationCount = &v
	}
	return out
}
