// xcursor forked from https://github.com/BurntSushi/xgbutil/blob/master/xcursor/xcursor.go
package xcursor

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Glyphs from the X11 cursor font.
const (
	BottomLeftCorner  = 12
	BottomRightCorner = 14
	BottomSide        = 16
	Fleur             = 52
	LeftPtr           = 68
	LeftSide          = 70
	RightSide         = 96
	TopLeftCorner     = 134
	TopRightCorner    = 136
	TopSide           = 138
)

func CreateCursor(x *xgb.Conn, cursor uint16) (xproto.Cursor, error) {
	return CreateCursorExtra(x, cursor, 0xffff, 0xffff, 0xffff, 0, 0, 0)
}

func CreateCursorExtra(x *xgb.Conn, cursor, foreRed, foreGreen,
	foreBlue, backRed, backGreen, backBlue uint16) (xproto.Cursor, error) {

	fontId, err := xproto.NewFontId(x)
	if err != nil {
		return 0, err
	}

	cursorId, err := xproto.NewCursorId(x)
	if err != nil {
		return 0, err
	}

	err = xproto.OpenFontChecked(x, fontId,
		uint16(len("cursor")), "cursor").Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CreateGlyphCursorChecked(x, cursorId, fontId, fontId,
		cursor, cursor+1,
		foreRed, foreGreen, foreBlue,
		backRed, backGreen, backBlue).Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CloseFontChecked(x, fontId).Check()
	if err != nil {
		return 0, err
	}

	return cursorId, nil
}

// Cache creates each glyph cursor once per connection.
type Cache struct {
	conn    *xgb.Conn
	cursors map[uint16]xproto.Cursor
}

func NewCache(conn *xgb.Conn) *Cache {
	return &Cache{
		conn:    conn,
		cursors: make(map[uint16]xproto.Cursor),
	}
}

func (c *Cache) Get(glyph uint16) (xproto.Cursor, error) {
	if cursor, ok := c.cursors[glyph]; ok {
		return cursor, nil
	}

	cursor, err := CreateCursor(c.conn, glyph)
	if err != nil {
		return 0, fmt.Errorf("create cursor %d: %w", glyph, err)
	}
	c.cursors[glyph] = cursor
	return cursor, nil
}

func (c *Cache) Free() {
	for glyph, cursor := range c.cursors {
		xproto.FreeCursor(c.conn, cursor)
		delete(c.cursors, glyph)
	}
}
