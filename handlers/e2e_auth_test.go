package handlers

import "net/http"

func (s *E2ETestSuite) Test01_SignupUserA() {
	status, body := s.request("POST", "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    s.emailA,
		"password": "secret123",
	}, "")
	s.Equal(http.StatusCreated, status)
	s.Equal("User created", body["message"])
	s.NotEmpty(body["token"])
	s.tokenA = body["token"].(string)

	user, ok := body["user"].(map[string]interface{})
	s.Require().True(ok)
	s.Equal("alice", user["username"])
	s.NotContains(user, "password")
}

func (s *E2ETestSuite) Test02_SignupDuplicateEmail() {
	status, body := s.request("POST", "/api/auth/signup", map[string]string{
		"username": "alice2",
		"email":    s.emailA,
		"password": "secret123",
	}, "")
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Email already registered", body["error"])
}

func (s *E2ETestSuite) Test03_SignupShortPassword() {
	status, body := s.request("POST", "/api/auth/signup", map[string]string{
		"username": "carol",
		"email":    "carol-" + s.emailA,
		"password": "12345",
	}, "")
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Password must be at least 6 characters", body["error"])
}

// Wrong password and unknown email must be indistinguishable to the caller.
func (s *E2ETestSuite) Test04_LoginCredentialErrorsIdentical() {
	statusWrong, bodyWrong := s.request("POST", "/api/auth/login", map[string]string{
		"email":    s.emailA,
		"password": "wrong-password",
	}, "")
	statusUnknown, bodyUnknown := s.request("POST", "/api/auth/login", map[string]string{
		"email":    "nobody-" + s.emailA,
		"password": "secret123",
	}, "")
	s.Equal(http.StatusUnauthorized, statusWrong)
	s.Equal(http.StatusUnauthorized, statusUnknown)
	s.Equal(bodyWrong, bodyUnknown)
	s.Equal("Invalid email or password", bodyWrong["error"])
}

func (s *E2ETestSuite) Test05_LoginSuccess() {
	status, body := s.request("POST", "/api/auth/login", map[string]string{
		"email":    s.emailA,
		"password": "secret123",
	}, "")
	s.Equal(http.StatusOK, status)
	s.Equal("Login successful", body["message"])
	s.NotEmpty(body["token"])
	s.tokenA = body["token"].(string)
}

func (s *E2ETestSuite) Test06_Me() {
	status, body := s.request("GET", "/api/auth/me", nil, s.tokenA)
	s.Equal(http.StatusOK, status)
	s.Equal(s.emailA, body["email"])
	s.NotContains(body, "password")
}

func (s *E2ETestSuite) Test07_MeWithoutToken() {
	status, body := s.request("GET", "/api/auth/me", nil, "")
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("Access denied. No token provided.", body["error"])
}

func (s *E2ETestSuite) Test08_Logout() {
	status, body := s.request("POST", "/api/auth/logout", nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal("Logged out successfully", body["message"])
}

// Logout cannot revoke a stateless token; it keeps working afterwards.
func (s *E2ETestSuite) Test09_TokenStillValidAfterLogout() {
	status, _ := s.request("GET", "/api/auth/me", nil, s.tokenA)
	s.Equal(http.StatusOK, status)
}
