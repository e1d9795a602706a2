package domain

type Board struct {
	Id           BoardId    `json:"id"`
	Title        BoardTitle `json:"title"`
	OwnerId      UserId     `json:"owner_id"`
	ThumbnailURL string     `json:"thumbnail_url"`
}

// BoardDetail is a board together with its cards, as returned by the
// board detail and shared board endpoints.
type BoardDetail struct {
	Board
	Permission Permission `json:"permission,omitempty"`
	Cards      []Card     `json:"cards"`
}

type ShareLink struct {
	Id         int64      `json:"id"`
	BoardId    BoardId    `json:"board_id"`
	Token      ShareToken `json:"token"`
	Permission Permission `json:"permission"`
}

type AccessGrant struct {
	Id         int64      `json:"id"`
	BoardId    BoardId    `json:"board_id"`
	UserId     UserId     `json:"user_id"`
	Email      Email      `json:"email"`
	Permission Permission `json:"permission"`
}

// BoardPatch is a partial update of board metadata. An empty ThumbnailURL
// clears the thumbnail.
type BoardPatch struct {
	Title        *BoardTitle
	ThumbnailURL *string
}

func (p BoardPatch) Apply(b Board) Board {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ThumbnailURL != nil {
		b.ThumbnailURL = *p.ThumbnailURL
	}
	return b
}
