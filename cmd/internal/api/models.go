package api

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type logoutRequest struct {
	Login string `json:"login"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type changePasswordRequest struct {
	Login       string `json:"login"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type changePasswordResponse struct {
	Message  string `json:"message"`
	NewToken string `json:"new_token"`
}

type sortRequest struct {
	Array     []int  `json:"array"`
	UserLogin string `json:"user_login"`
}

type sortResponse struct {
	SortedArray []int `json:"sorted_array"`
}

type historyResponse struct {
	History [][]int `json:"history"`
}

type sliceResponse struct {
	ArraySlice [][]int `json:"array_slice"`
}

type insertResponse struct {
	UpdatedArray []int `json:"updated_array"`
}

type removeResponse struct {
	Message      string `json:"message"`
	DeletedArray []int  `json:"deleted_array"`
}
