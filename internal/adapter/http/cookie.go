package adapthttp

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

// CookieCodec signs and encodes the session cookie. The store never sees
// the signed form; the codec strips it back to the opaque value before the
// session layer is involved.
type CookieCodec struct {
	name  string
	codec *securecookie.SecureCookie
}

// NewCookieCodec builds a codec for the named cookie, signed with secret.
// The secret should be 64 bytes; securecookie accepts shorter keys but the
// config layer always supplies 64.
func NewCookieCodec(name string, secret []byte) *CookieCodec {
	sc := securecookie.New(secret, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &CookieCodec{name: name, codec: sc}
}

// ReadValue extracts the opaque session value from the request. A missing
// cookie or a cookie that fails signature verification both report false;
// the caller treats the request as sessionless either way.
func (c *CookieCodec) ReadValue(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return "", false
	}
	var value string
	if err := c.codec.Decode(c.name, cookie.Value, &value); err != nil {
		return "", false
	}
	return value, true
}

// Write sets the session cookie carrying value.
func (c *CookieCodec) Write(w http.ResponseWriter, value string) error {
	encoded, err := c.codec.Encode(c.name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Clear expires the session cookie on the client.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
