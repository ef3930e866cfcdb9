package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// ErrEndpointConfig - документ с адресом сервиса отсутствует или поврежден
var ErrEndpointConfig = errors.New("invalid endpoint configuration")

// LoadEndpoint читает JSON-документ вида {"endpoint": "<base64>"} и декодирует адрес сервиса.
// Вызывается один раз при старте; любая ошибка фатальна для клиента.
func LoadEndpoint(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: endpoint file path is empty", ErrEndpointConfig)
	}

	vip := viper.New()
	vip.SetConfigFile(path)
	vip.SetConfigType("json")
	if err := vip.ReadInConfig(); err != nil {
		return "", fmt.Errorf("%w: cannot load %s: %v", ErrEndpointConfig, path, err)
	}

	return DecodeEndpoint(vip.GetString("endpoint"))
}

// DecodeEndpoint декодирует base64 и проверяет, что получился абсолютный http(s) адрес
func DecodeEndpoint(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", fmt.Errorf("%w: endpoint is missing", ErrEndpointConfig)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Встречаются значения без padding
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return "", fmt.Errorf("%w: endpoint is not valid base64: %v", ErrEndpointConfig, err)
		}
	}

	endpoint := strings.TrimSpace(string(raw))
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: endpoint is not a URL: %v", ErrEndpointConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: endpoint must be an absolute http(s) URL", ErrEndpointConfig)
	}
	return endpoint, nil
}
