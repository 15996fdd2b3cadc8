package session

import (
	"errors"
	"strconv"
	"strings"
)

// sessionFromLogin digs the token, user identity and permission snapshot
// out of the upstream login response, whichever envelope it arrives in.
func sessionFromLogin(resp map[string]any) (*Session, error) {
	if resp == nil {
		return nil, errors.New("empty login response")
	}

	envelopes := []map[string]any{resp}
	if data, ok := resp["data"].(map[string]any); ok {
		envelopes = append(envelopes, data)
	}

	sess := &Session{}
	for _, env := range envelopes {
		if sess.Token == "" {
			for _, key := range []string{"token", "access_token"} {
				if s, ok := env[key].(string); ok && s != "" {
					sess.Token = s
					break
				}
			}
		}
		if user, ok := env["user"].(map[string]any); ok {
			fillUser(sess, user)
		}
	}
	// some builds flatten the user into the envelope itself
	if sess.UserID == 0 && sess.Email == "" {
		for _, env := range envelopes {
			fillUser(sess, env)
		}
	}

	if sess.Token == "" {
		return nil, errors.New("login response carries no token")
	}
	return sess, nil
}

func fillUser(sess *Session, user map[string]any) {
	if sess.UserID == 0 {
		switch id := user["id"].(type) {
		case float64:
			sess.UserID = int64(id)
		case string:
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				sess.UserID = n
			}
		}
	}
	if sess.Email == "" {
		sess.Email, _ = user["email"].(string)
	}
	if sess.Name == "" {
		sess.Name, _ = user["name"].(string)
	}

	if roles, ok := user["roles"].([]any); ok {
		for _, r := range roles {
			switch role := r.(type) {
			case string:
				sess.Roles = appendUnique(sess.Roles, role)
			case map[string]any:
				if name, ok := role["name"].(string); ok {
					sess.Roles = appendUnique(sess.Roles, name)
				}
				sess.Permissions = appendPermissions(sess.Permissions, role["permissions"])
			}
		}
	}
	sess.Permissions = appendPermissions(sess.Permissions, user["permissions"])
}

// appendPermissions accepts permission lists of strings or objects; objects
// are labelled by title first, name second.
func appendPermissions(existing []string, v any) []string {
	list, ok := v.([]any)
	if !ok {
		return existing
	}
	for _, p := range list {
		switch perm := p.(type) {
		case string:
			existing = appendUnique(existing, perm)
		case map[string]any:
			if title, ok := perm["title"].(string); ok && title != "" {
				existing = appendUnique(existing, title)
			} else if name, ok := perm["name"].(string); ok && name != "" {
				existing = appendUnique(existing, name)
			}
		}
	}
	return existing
}

func appendUnique(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return list
		}
	}
	return append(list, value)
}
