package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotenvPaths: DOTENV_PATH가 없을 때 확인하는 파일 목록 (앞쪽 파일이 우선)
var DefaultDotenvPaths = []string{".env.local", ".env"}

// LoadDotenvIfPresent: 존재하는 dotenv 파일만 읽어 환경 변수에 반영하고 실제 로드한 경로를 반환한다.
// 이미 설정된 환경 변수는 덮어쓰지 않는다.
func LoadDotenvIfPresent(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		if explicit := StringFromEnv("DOTENV_PATH", ""); explicit != "" {
			paths = []string{explicit}
		} else {
			paths = DefaultDotenvPaths
		}
	}

	loaded := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("stat dotenv file failed path=%s: %w", path, err)
		}

		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load dotenv file failed path=%s: %w", path, err)
		}
		loaded = append(loaded, path)
	}

	return loaded, nil
}
