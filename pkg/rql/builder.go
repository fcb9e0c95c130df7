package rql

import "strings"

// Builder 以基础谓词开头, 依次追加 AND 条件
type Builder struct {
	sb     strings.Builder
	values []string
}

// Where 创建基础谓词 field = 'value'
func Where(field, value string) *Builder {
	b := &Builder{}
	b.sb.WriteString(field)
	b.sb.WriteString(" = ")
	b.sb.WriteString(Quote(value))
	b.values = append(b.values, value)
	return b
}

func (b *Builder) And(field, value string) *Builder {
	return b.AndIDs(field, One(value))
}

func (b *Builder) AndNot(field, value string) *Builder {
	b.sb.WriteString(" AND ")
	b.sb.WriteString(field)
	b.sb.WriteString(" != ")
	b.sb.WriteString(Quote(value))
	b.values = append(b.values, value)
	return b
}

// AndIDs 空参数不追加任何条件
func (b *Builder) AndIDs(field string, ids IDs) *Builder {
	b.sb.WriteString(Condition(ids, "AND "+field))
	b.values = append(b.values, ids.Values()...)
	return b
}

func (b *Builder) String() string {
	return b.sb.String()
}

// Build 返回查询串, 值中出现控制字符时报错
func (b *Builder) Build() (string, error) {
	if err := Validate(b.values...); err != nil {
		return "", err
	}
	return b.sb.String(), nil
}
