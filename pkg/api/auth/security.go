package auth

import (
	"net/http"
	"regexp"

	"github.com/aleshan/offline/configurationtypes"
)

// SecurityAPI object contains informations related to the endpoints
type SecurityAPI struct {
	basePath string
	enabled  bool
	secret   []byte
	users    map[string]string
}

// InitializeSecurity initialize the security endpoints
func InitializeSecurity(configuration configurationtypes.AbstractConfigurationInterface) *SecurityAPI {
	basePath := configuration.GetAPI().Security.BasePath
	enabled := configuration.GetAPI().Security.Enable
	secret := []byte(configuration.GetAPI().Security.Secret)
	users := make(map[string]string)
	for _, user := range configuration.GetAPI().Security.Users {
		users[user.Username] = user.Password
	}
	if "" == basePath {
		basePath = "/authentication"
	}
	return &SecurityAPI{
		basePath,
		enabled,
		secret,
		users,
	}
}

// GetBasePath will return the basepath for this resource
func (s *SecurityAPI) GetBasePath() string {
	return s.basePath
}

// IsEnabled will return enabled status
func (s *SecurityAPI) IsEnabled() bool {
	return s.enabled
}

// HandleRequest will handle the request
func (s *SecurityAPI) HandleRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if regexp.MustCompile(s.GetBasePath()+"/login").FindString(r.RequestURI) != "" {
			signJWT(s, w, r)
		} else if regexp.MustCompile(s.GetBasePath()+"/refresh").FindString(r.RequestURI) != "" {
			refresh(s, w, r)
		} else {
			_, _ = w.Write([]byte{})
		}
	default:
		_, _ = w.Write([]byte{})
	}
}
