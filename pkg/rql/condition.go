// Package rql builds filter predicates for the task store query language.
//
// Values are always quoted and escaped; field names and relations are
// expected to be code constants.
package rql

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidValue = errors.New("rql: value contains control characters")

type idsKind int8

const (
	kindNone idsKind = iota
	kindOne
	kindList
)

// IDs 条件参数: 缺省, 单个值或有序列表
type IDs struct {
	kind   idsKind
	values []string
}

func None() IDs { return IDs{} }

func One(id string) IDs { return IDs{kind: kindOne, values: []string{id}} }

func List(ids ...string) IDs {
	if len(ids) == 0 {
		return IDs{}
	}
	return IDs{kind: kindList, values: append([]string(nil), ids...)}
}

// FromSlice 单元素切片按单个值处理, 与 ?status=a 的查询参数语义一致
func FromSlice(ids []string) IDs {
	switch len(ids) {
	case 0:
		return None()
	case 1:
		return One(ids[0])
	default:
		return List(ids...)
	}
}

func (ids IDs) Empty() bool {
	switch ids.kind {
	case kindOne:
		return ids.values[0] == ""
	case kindList:
		return len(ids.values) == 0
	}
	return true
}

// Values 返回去重后的值, 保持原有顺序
func (ids IDs) Values() []string {
	if ids.Empty() {
		return nil
	}
	seen := make(map[string]struct{}, len(ids.values))
	out := make([]string, 0, len(ids.values))
	for _, v := range ids.values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Condition 生成追加在基础谓词之后的条件片段
//
//	None()/List()  -> ""
//	One("a")       -> " AND status.id = 'a'"
//	List("a", "b") -> " AND status.id IN ('a', 'b')"
func Condition(ids IDs, relation string) string {
	if ids.Empty() {
		return ""
	}
	values := ids.Values()
	if ids.kind == kindOne {
		return fmt.Sprintf(" %s = %s", relation, Quote(values[0]))
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	return fmt.Sprintf(" %s IN (%s)", relation, strings.Join(quoted, ", "))
}

// Quote 单引号包裹并转义
func Quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// Validate 拒绝包含控制字符的值
func Validate(values ...string) error {
	for _, v := range values {
		if strings.IndexFunc(v, unicode.IsControl) >= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidValue, v)
		}
	}
	return nil
}
