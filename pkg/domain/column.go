package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidColumn is returned for column indexes outside of the fixed layout
var ErrInvalidColumn = errors.New("invalid column")

// Column is a fixed slot of the dashboard
type Column int

// the dashboard always has exactly three columns
const (
	ColumnLeft Column = iota
	ColumnCenter
	ColumnRight
)

// NumColumns is the fixed number of dashboard columns
const NumColumns = 3

// Columns lists all columns in display order
var Columns = [NumColumns]Column{ColumnLeft, ColumnCenter, ColumnRight}

// ParseColumn converts a string index ("0".."2") to a Column
func ParseColumn(s string) (Column, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidColumn, s)
	}
	col := Column(idx)
	if !col.Valid() {
		return 0, fmt.Errorf("%w %d", ErrInvalidColumn, idx)
	}
	return col, nil
}

// Valid reports whether the column is one of the three slots
func (c Column) Valid() bool {
	return c >= ColumnLeft && c <= ColumnRight
}

// HandleKey returns the setting holding the handle shown in this column
func (c Column) HandleKey() SettingKey {
	switch c {
	case ColumnCenter:
		return SettingCenterCol
	case ColumnRight:
		return SettingRightCol
	default:
		return SettingLeftCol
	}
}

// Name returns the human name of the column
func (c Column) Name() string {
	switch c {
	case ColumnLeft:
		return "left"
	case ColumnCenter:
		return "center"
	case ColumnRight:
		return "right"
	default:
		return "column-" + strconv.Itoa(int(c))
	}
}

func (c Column) String() string {
	return c.Name()
}
