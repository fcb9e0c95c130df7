package model

// CommonParam 每个请求都携带的项目上下文与调用方身份
type CommonParam struct {
	ProjectID     string `header:"Project-ID" uri:"-" form:"-" binding:"required,uuid"`
	AccountID     string `header:"Account-ID" uri:"-" form:"-" binding:"omitempty,uuid"`
	Authorization string `header:"Authorization" uri:"-" form:"-"`

	// UserID 来自已校验的 JWT, 匿名请求为空
	UserID string `header:"-" uri:"-" form:"-"`
}

type CommonParamInterface interface {
	Common() *CommonParam
	SetUserID(userID string)
}

func (p *CommonParam) Common() *CommonParam {
	return p
}

func (p *CommonParam) SetUserID(userID string) {
	p.UserID = userID
}

type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
