package emby

import (
	"context"
	"net/url"

	"embymcp/pkg/media"
)

type embyUser struct {
	Name string `json:"Name"`
	ID   string `json:"Id"`
}

// Users lists the accounts known to the server. A non-empty userID fetches
// that single account via /Users/{id}; otherwise the public listing is
// returned, optionally narrowed to display names matching userName. Name
// matching folds case and diacritics the same way lyric search does.
func (c *Client) Users(ctx context.Context, userID, userName string) ([]media.User, error) {
	if userID != "" {
		var u embyUser
		if err := c.do(ctx, "GET", "/Users/"+url.PathEscape(userID), "user", nil, nil, &u); err != nil {
			return nil, err
		}
		return []media.User{{UserID: u.ID, UserName: u.Name}}, nil
	}

	var raw []embyUser
	if err := c.do(ctx, "GET", "/Users/Public", "users", nil, nil, &raw); err != nil {
		return nil, err
	}
	users := make([]media.User, 0, len(raw))
	for _, u := range raw {
		if userName != "" && !foldEqual(u.Name, userName) {
			continue
		}
		users = append(users, media.User{UserID: u.ID, UserName: u.Name})
	}
	return users, nil
}
