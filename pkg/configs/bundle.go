package configs

import (
	"errors"
	"fmt"
)

var (
	// ErrIncorrectCredentials 配置服务拒绝了调用方的凭据 (400)
	ErrIncorrectCredentials = errors.New("configs: incorrect credentials")
	// ErrServiceFailure 配置服务其他任何失败
	ErrServiceFailure = errors.New("configs: service failure")
)

// Bundle 配置名 -> 取值, 标量使用 value 键, 状态集合使用具名键
type Bundle map[string]map[string]string

// Value 标量配置项
func (b Bundle) Value(name string) string {
	return b[name]["value"]
}

// Get 状态集合中的某个键
func (b Bundle) Get(name, key string) string {
	return b[name][key]
}

// Require 检查所有配置项都已返回
func (b Bundle) Require(names ...string) error {
	for _, name := range names {
		if _, ok := b[name]; !ok {
			return fmt.Errorf("%w: config %q is missing", ErrServiceFailure, name)
		}
	}
	return nil
}
