package dxf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Vertex 折线顶点，图纸原生单位
type Vertex struct {
	X float64
	Y float64
}

// Polyline POLYLINE/LWPOLYLINE 的统一表示
type Polyline struct {
	Closed   bool
	Vertices []Vertex
}

// Text 块内 TEXT/MTEXT 的内容
type Text struct {
	Value string
}

// Block BLOCKS 段里的一个命名块
type Block struct {
	Name      string
	Polylines []Polyline
	Texts     []Text
}

// Insert ENTITIES 段里对块的一次引用
type Insert struct {
	BlockName string
}

// Document 解析后的图纸。Blocks 保持文件中的出现顺序。
type Document struct {
	Blocks  []*Block
	Inserts []Insert

	blockIndex map[string]*Block
}

// BlockByName 按名取块，不存在返回 nil
func (d *Document) BlockByName(name string) *Block {
	return d.blockIndex[name]
}

// InsertCount 块被 INSERT 引用的次数
func (d *Document) InsertCount(name string) int {
	n := 0
	for _, ins := range d.Inserts {
		if ins.BlockName == name {
			n++
		}
	}
	return n
}

// Parse 解析整张图纸。编码按 UTF-8 优先、CP949 兜底。
func Parse(raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnreadable)
	}
	decoded, err := decodeBytes(raw)
	if err != nil {
		return nil, err
	}

	doc := &Document{blockIndex: make(map[string]*Block)}
	s := newScanner(bytes.NewReader(decoded))

	sawSection := false
	for {
		t, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if t.code != 0 || t.value != "SECTION" {
			continue
		}
		name, err := s.next()
		if err != nil {
			return nil, fmt.Errorf("%w: section without name", ErrUnreadable)
		}
		if name.code != 2 {
			continue
		}
		sawSection = true
		switch name.value {
		case "BLOCKS":
			if err := parseBlocks(s, doc); err != nil {
				return nil, err
			}
		case "ENTITIES":
			if err := parseEntities(s, doc); err != nil {
				return nil, err
			}
		}
	}
	if !sawSection {
		return nil, fmt.Errorf("%w: no DXF sections found", ErrUnreadable)
	}
	return doc, nil
}

// parseBlocks 读 BLOCKS 段直到 ENDSEC。
// 子实体解析函数在读到自己不认的 0 码时回放，本循环统一分发。
func parseBlocks(s *scanner, doc *Document) error {
	var cur *Block
	for {
		t, err := s.next()
		if err == io.EOF {
			return fmt.Errorf("%w: unterminated BLOCKS section", ErrUnreadable)
		}
		if err != nil {
			return err
		}
		if t.code != 0 {
			if cur != nil && t.code == 2 && cur.Name == "" {
				cur.Name = strings.TrimSpace(t.value)
			}
			continue
		}
		switch t.value {
		case "ENDSEC":
			return nil
		case "BLOCK":
			cur = &Block{}
		case "ENDBLK":
			if cur != nil && cur.Name != "" {
				doc.Blocks = append(doc.Blocks, cur)
				doc.blockIndex[cur.Name] = cur
			}
			cur = nil
		case "POLYLINE":
			pl, err := parsePolyline(s)
			if err != nil {
				return err
			}
			if cur != nil {
				cur.Polylines = append(cur.Polylines, pl)
			}
		case "LWPOLYLINE":
			pl, err := parseLWPolyline(s)
			if err != nil {
				return err
			}
			if cur != nil {
				cur.Polylines = append(cur.Polylines, pl)
			}
		case "TEXT", "MTEXT":
			txt, err := parseText(s)
			if err != nil {
				return err
			}
			if cur != nil && txt != "" {
				cur.Texts = append(cur.Texts, Text{Value: txt})
			}
		}
	}
}

// parsePolyline 旧式 POLYLINE：70 标志位，VERTEX 序列，SEQEND 结束
func parsePolyline(s *scanner) (Polyline, error) {
	var pl Polyline
	var vx, vy float64
	var inVertex, hasX bool
	for {
		t, err := s.next()
		if err == io.EOF {
			return pl, fmt.Errorf("%w: unterminated POLYLINE", ErrUnreadable)
		}
		if err != nil {
			return pl, err
		}
		switch {
		case t.code == 0 && t.value == "SEQEND":
			return pl, nil
		case t.code == 0 && t.value == "VERTEX":
			inVertex, hasX = true, false
		case t.code == 0:
			// 没有 SEQEND 的残缺序列，停在这个实体上
			s.unread(t)
			return pl, nil
		case t.code == 70 && !inVertex:
			if flags, err := strconv.Atoi(strings.TrimSpace(t.value)); err == nil {
				pl.Closed = flags&1 != 0
			}
		case t.code == 10 && inVertex:
			vx, _ = strconv.ParseFloat(strings.TrimSpace(t.value), 64)
			hasX = true
		case t.code == 20 && inVertex && hasX:
			vy, _ = strconv.ParseFloat(strings.TrimSpace(t.value), 64)
			pl.Vertices = append(pl.Vertices, Vertex{X: vx, Y: vy})
			hasX = false
		}
	}
}

// parseLWPolyline 轻量折线：10/20 成对出现，没有终止实体，
// 读到下一个 0 码即结束并回放
func parseLWPolyline(s *scanner) (Polyline, error) {
	var pl Polyline
	var x float64
	var hasX bool
	for {
		t, err := s.next()
		if err == io.EOF {
			return pl, nil
		}
		if err != nil {
			return pl, err
		}
		if t.code == 0 {
			s.unread(t)
			return pl, nil
		}
		switch t.code {
		case 70:
			if flags, err := strconv.Atoi(strings.TrimSpace(t.value)); err == nil {
				pl.Closed = flags&1 != 0
			}
		case 10:
			x, _ = strconv.ParseFloat(strings.TrimSpace(t.value), 64)
			hasX = true
		case 20:
			if hasX {
				y, _ := strconv.ParseFloat(strings.TrimSpace(t.value), 64)
				pl.Vertices = append(pl.Vertices, Vertex{X: x, Y: y})
				hasX = false
			}
		}
	}
}

// parseText TEXT/MTEXT 的正文（组码 1），读到下一个 0 码结束并回放
func parseText(s *scanner) (string, error) {
	value := ""
	for {
		t, err := s.next()
		if err == io.EOF {
			return value, nil
		}
		if err != nil {
			return "", err
		}
		if t.code == 0 {
			s.unread(t)
			return value, nil
		}
		if t.code == 1 {
			value = strings.TrimSpace(t.value)
		}
	}
}

// parseEntities 读 ENTITIES 段，只收 INSERT
func parseEntities(s *scanner, doc *Document) error {
	inInsert := false
	for {
		t, err := s.next()
		if err == io.EOF {
			return fmt.Errorf("%w: unterminated ENTITIES section", ErrUnreadable)
		}
		if err != nil {
			return err
		}
		if t.code == 0 {
			if t.value == "ENDSEC" {
				return nil
			}
			inInsert = t.value == "INSERT"
			continue
		}
		if inInsert && t.code == 2 {
			doc.Inserts = append(doc.Inserts, Insert{BlockName: strings.TrimSpace(t.value)})
			inInsert = false
		}
	}
}
