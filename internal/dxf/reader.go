// Package dxf 读取 YUKA/CAD 导出的 ASCII DXF 图纸。
// 只认样板提取需要的子集：BLOCKS 段里的闭合折线与文本，ENTITIES 段里的 INSERT。
package dxf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrUnreadable 文件整体无法按 DXF 解析
var ErrUnreadable = errors.New("dxf: unreadable drawing")

// tag 一对组码/值。DXF 文件就是这种对的平铺序列。
type tag struct {
	code  int
	value string
}

// scanner 逐对读取组码/值，支持回放一对
type scanner struct {
	r      *bufio.Scanner
	line   int
	peeked *tag
}

func newScanner(r io.Reader) *scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &scanner{r: s}
}

// unread 回放一对 tag，下次 next 先返回它
func (s *scanner) unread(t tag) {
	s.peeked = &t
}

// next 读下一对 tag。文件读完返回 io.EOF。
func (s *scanner) next() (tag, error) {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t, nil
	}
	if !s.r.Scan() {
		if err := s.r.Err(); err != nil {
			return tag{}, err
		}
		return tag{}, io.EOF
	}
	s.line++
	codeStr := strings.TrimSpace(s.r.Text())

	if !s.r.Scan() {
		if err := s.r.Err(); err != nil {
			return tag{}, err
		}
		return tag{}, fmt.Errorf("%w: truncated tag pair at line %d", ErrUnreadable, s.line)
	}
	s.line++
	value := strings.TrimRight(s.r.Text(), "\r")

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return tag{}, fmt.Errorf("%w: bad group code %q at line %d", ErrUnreadable, codeStr, s.line-1)
	}
	return tag{code: code, value: value}, nil
}

// decodeBytes 图纸字节 → UTF-8 文本。
// 合法 UTF-8 原样返回，否则按 CP949/EUC-KR 解码（韩国 CAD 的常见遗留编码）。
func decodeBytes(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), korean.EUCKR.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("%w: cp949 decode: %v", ErrUnreadable, err)
	}
	return decoded, nil
}
