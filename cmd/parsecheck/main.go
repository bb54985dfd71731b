package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hysende/filmflow/internal/mediaparser"
)

// 调试工具: 把文件名喂给解析器, 打印识别结果
// 用法: parsecheck "Name.2020.mkv" [...], 无参数时从 stdin 逐行读
func main() {
	p := mediaparser.New()

	if len(os.Args) > 1 {
		for _, name := range os.Args[1:] {
			dump(p, name)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		dump(p, line)
	}
}

func dump(p *mediaparser.Parser, name string) {
	info := p.Parse(name)
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal failed: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
