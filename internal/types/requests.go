package types

// SignupRequest is the registration form.
type SignupRequest struct {
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
	Username  string `form:"username" json:"username" binding:"notblank,max=150,username"`
	Email     string `form:"email" json:"email" binding:"omitempty,email,max=254"`
	Password  string `form:"password" json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"notblank"`
	Password string `form:"password" json:"password" binding:"required"`
}

// PostRequest is the create and edit form for a post. A zero or missing
// Group leaves the post ungrouped.
type PostRequest struct {
	Text  string `form:"text" json:"text" binding:"notblank"`
	Group *uint  `form:"group" json:"group"`
}

// GroupID returns the selected group or nil.
func (r *PostRequest) GroupID() *uint {
	if r.Group == nil || *r.Group == 0 {
		return nil
	}
	id := *r.Group
	return &id
}

// CommentRequest is the comment form on the post detail page.
type CommentRequest struct {
	Text string `form:"text" json:"text" binding:"notblank"`
}

// UpdateUserRequest edits the account fields of the user.
type UpdateUserRequest struct {
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
	Email     string `form:"email" json:"email" binding:"omitempty,email,max=254"`
}

// UpdateProfileRequest edits the profile. BirthDate uses YYYY-MM-DD; an
// empty value clears it.
type UpdateProfileRequest struct {
	Bio       string `form:"bio" json:"bio" binding:"max=500"`
	Location  string `form:"location" json:"location" binding:"max=30"`
	BirthDate string `form:"birth_date" json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// GroupRequest creates a community group.
type GroupRequest struct {
	Title       string `form:"title" json:"title" binding:"notblank,max=200"`
	Slug        string `form:"slug" json:"slug" binding:"notblank,max=200,slug"`
	Description string `form:"description" json:"description"`
}
