package graph

import (
	"context"
	"fmt"
	"net/http"
)

// User is a user resource from Microsoft Graph.
type User struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	GivenName         string   `json:"givenName"`
	Surname           string   `json:"surname"`
	Mail              string   `json:"mail"`
	UserPrincipalName string   `json:"userPrincipalName"`
	JobTitle          string   `json:"jobTitle"`
	MobilePhone       string   `json:"mobilePhone"`
	OfficeLocation    string   `json:"officeLocation"`
	PreferredLanguage string   `json:"preferredLanguage"`
	BusinessPhones    []string `json:"businessPhones"`
}

// Email returns the user's email address, falling back to
// userPrincipalName when mail is not set.
func (u *User) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// GetUser fetches a user by ID or userPrincipalName.
func (c *Client) GetUser(ctx context.Context, userID string, opts ...CallOption) (*User, error) {
	o := newCallOptions(opts)
	url := appendQuery(fmt.Sprintf("%s/users/%s", c.baseURL, userID), o.query)

	resp, err := c.call(ctx, http.MethodGet, url, nil, o)
	if err != nil {
		return nil, err
	}

	var user User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers fetches a single page of users.
func (c *Client) ListUsers(ctx context.Context, opts ...CallOption) (*Page[User], error) {
	o := newCallOptions(opts)
	url := appendQuery(c.baseURL+"/users", o.query)
	return fetchPage[User](ctx, c, url, o)
}

// ListMoreUsers fetches a page of users from a continuation URL.
func (c *Client) ListMoreUsers(ctx context.Context, nextLink string, opts ...CallOption) (*Page[User], error) {
	return fetchPage[User](ctx, c, nextLink, newCallOptions(opts))
}

// ListAllUsers returns a lazy iterator over every user, following
// continuation links page by page.
func (c *Client) ListAllUsers(opts ...CallOption) *Iterator[User] {
	return newIterator(
		func(ctx context.Context) (*Page[User], error) {
			return c.ListUsers(ctx, opts...)
		},
		func(ctx context.Context, nextLink string) (*Page[User], error) {
			return c.ListMoreUsers(ctx, nextLink, opts...)
		},
	)
}

// fetchPage fetches and decodes one page of a collection.
func fetchPage[T any](ctx context.Context, c *Client, url string, o callOptions) (*Page[T], error) {
	resp, err := c.call(ctx, http.MethodGet, url, nil, o)
	if err != nil {
		return nil, err
	}

	var page Page[T]
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
