package response

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

type MeResponse struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
}
