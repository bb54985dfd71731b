package mediaparser

import "strconv"

// NumeralFunc 把 "3" 或 "三"/"十二" 这类数字串转成整数
// 解析失败返回 (0, false); 传 nil 给 Parser 时中文数字模式整体退化为不匹配
type NumeralFunc func(s string) (int, bool)

var cnDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// ChineseNumeral 默认实现: 阿拉伯数字直接转, 中文数字支持到 99 (十/二十/二十三 这类组合)
func ChineseNumeral(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	runes := []rune(s)
	if len(runes) == 0 {
		return 0, false
	}

	// 纯个位
	if len(runes) == 1 {
		if runes[0] == '十' {
			return 10, true
		}
		if d, ok := cnDigits[runes[0]]; ok {
			return d, true
		}
		return 0, false
	}

	// 含 "十" 的组合: [X]十[Y]
	tens := 0
	ones := 0
	seenTen := false
	for _, r := range runes {
		if r == '十' {
			if seenTen {
				return 0, false
			}
			seenTen = true
			if tens == 0 {
				tens = 1
			}
			continue
		}
		d, ok := cnDigits[r]
		if !ok {
			return 0, false
		}
		if seenTen {
			ones = ones*10 + d
		} else {
			tens = tens*10 + d
		}
	}
	if !seenTen {
		// 纯数字串 "一二" 不是合法表达
		return 0, false
	}
	return tens*10 + ones, true
}
