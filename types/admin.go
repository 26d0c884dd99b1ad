package types

type AdminStatusResponse struct {
	IsAdmin bool `json:"is_admin"`
}

type GrantAdminRequest struct {
	Email   string `json:"email" binding:"required,email"`
	IsAdmin bool   `json:"is_admin"`
}

type PageRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize 默认第一页 20 条, 最多 100 条
func (p *PageRequest) Normalize() (offset, limit int) {
	return Paginate(p.Page, p.PageSize)
}

func Paginate(page, pageSize int) (offset, limit int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return (page - 1) * pageSize, pageSize
}
