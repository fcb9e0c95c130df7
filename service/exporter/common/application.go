package common

import "github.com/to404hanga/contest_gateway/model"

// Headers 报名导出的表头
var Headers = []string{
	"ID заявки",
	"Название",
	"Статус",
	"ID пользователя",
	"Ссылка на решение",
	"Комментарий",
	"Создана",
	"Обновлена",
}

// Row 与 Headers 一一对应, nil 字段输出为空串
func Row(item model.ContestTaskItem) []string {
	return []string{
		item.ID,
		item.Title,
		deref(item.StatusName),
		deref(item.UserID),
		deref(item.SolutionLink),
		deref(item.Comments),
		deref(item.CreatedAt),
		deref(item.UpdatedAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
