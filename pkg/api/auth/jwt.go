package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

// JwtProvider is the representation of decoded JWT
type JwtProvider struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

type credentials struct {
	Password string `json:"password"`
	Username string `json:"username"`
}

const tokenName = "offline-authorization-token"
const lifetime = time.Hour * 24 * 7

func signJWT(security *SecurityAPI, w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	expectedPassword, ok := security.users[creds.Username]
	if !ok || expectedPassword != creds.Password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	claims := &JwtProvider{
		Username:       creds.Username,
		StandardClaims: jwt.StandardClaims{},
	}

	setCookie(w, claims, security.secret)
}

func refresh(security *SecurityAPI, w http.ResponseWriter, r *http.Request) {
	claims, err := CheckToken(security, w, r)
	if err != nil {
		return
	}

	// A new token is only issued close enough to the expiry of the previous one.
	if time.Until(time.Unix(claims.ExpiresAt, 0)) > 24*time.Hour {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	setCookie(w, claims, security.secret)
}

// CheckToken will return if token is valid or not
func CheckToken(security *SecurityAPI, w http.ResponseWriter, r *http.Request) (*JwtProvider, error) {
	c, err := r.Cookie(tokenName)
	if err != nil {
		if err.Error() == http.ErrNoCookie.Error() {
			w.WriteHeader(http.StatusUnauthorized)
			return nil, &tokenError{found: false}
		}
		w.WriteHeader(http.StatusBadRequest)
		return nil, &tokenError{found: true}
	}

	claims := &JwtProvider{}
	tkn, e := jwt.ParseWithClaims(c.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return security.secret, nil
	})
	if e != nil {
		if jwt.ErrSignatureInvalid.Error() == e.Error() {
			w.WriteHeader(http.StatusUnauthorized)
			return claims, &signatureError{}
		}
		w.WriteHeader(http.StatusBadRequest)
		return claims, &signatureError{}
	}
	if !tkn.Valid {
		w.WriteHeader(http.StatusUnauthorized)
		return claims, &signatureError{}
	}

	return claims, nil
}

func setCookie(w http.ResponseWriter, claims *JwtProvider, secret []byte) {
	expirationTime := time.Now().Add(lifetime)
	claims.ExpiresAt = expirationTime.Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:    tokenName,
		Path:    "/",
		Value:   tokenString,
		Expires: expirationTime,
	})
}
