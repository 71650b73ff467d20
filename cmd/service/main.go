// File: cmd/service/main.go
// @title        Medtrack API
// @version      1.0
// @description  藥品登錄與使用者註冊服務的 API 文件
// @host         localhost:8080
// @BasePath     /
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
