package obj_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keurnel/machoasm/internal/obj"
)

func TestAppendReturnsLandingAddress(t *testing.T) {
	o := obj.New()

	require.EqualValues(t, 0, o.Text.Append([]byte{0xB8, 0x2A, 0x00, 0x00, 0x00}))
	require.EqualValues(t, 5, o.Text.Append([]byte{0xC3}))
	require.EqualValues(t, 6, len(o.Text.Bytes))

	require.EqualValues(t, 0, o.Data.Append([]byte{0x48, 0x69}))
	require.EqualValues(t, 2, o.Data.Append([]byte{0x00}))
}

func TestSectionsSkipEmpty(t *testing.T) {
	o := obj.New()
	require.Empty(t, o.Sections())

	o.Data.Append([]byte{0x01})
	sects := o.Sections()
	require.Len(t, sects, 1)
	require.Same(t, obj.Section(&o.Data), sects[0])

	o.Text.Append([]byte{0xC3})
	o.Bss.Size = 8
	sects = o.Sections()
	require.Len(t, sects, 3)
	require.Same(t, obj.Section(&o.Text), sects[0])
	require.Same(t, obj.Section(&o.Data), sects[1])
	require.Same(t, obj.Section(&o.Bss), sects[2])
}

func TestBssCarriesNoFileData(t *testing.T) {
	o := obj.New()
	o.Bss.Size = 128

	require.EqualValues(t, 128, o.Bss.VMSize())
	require.Empty(t, o.Bss.FileData())
	require.EqualValues(t, 0, obj.FileSize(&o.Bss))
}

func TestMarkGlobal(t *testing.T) {
	o := obj.New()
	o.Text.Symbols = append(o.Text.Symbols, obj.Ref("_main", 0, false))
	o.Data.Symbols = append(o.Data.Symbols, obj.Ref("msg", 0, false), obj.Undef("printf"))

	o.MarkGlobal("_main")
	o.MarkGlobal("printf")

	require.True(t, o.Text.Symbols[0].Ext)
	require.False(t, o.Data.Symbols[0].Ext)
	// Undefined symbols keep their kind-implied external handling.
	require.False(t, o.Data.Symbols[1].Ext)
}

func TestFindSymbol(t *testing.T) {
	o := obj.New()
	o.Text.Symbols = append(o.Text.Symbols, obj.Ref("_start", 4, true))
	o.Bss.Symbols = append(o.Bss.Symbols, obj.Ref("buf", 0, false))

	require.True(t, o.FindSymbol("_start"))
	require.True(t, o.FindSymbol("buf"))
	require.False(t, o.FindSymbol("missing"))
}

func TestSymbolConstructors(t *testing.T) {
	require.Equal(t, obj.Symbol{Kind: obj.SymbolUndef, Name: "x"}, obj.Undef("x"))
	require.Equal(t, obj.Symbol{Kind: obj.SymbolAbs, Name: "x", Value: 7, Ext: true}, obj.Abs("x", 7, true))
	require.Equal(t, obj.Symbol{Kind: obj.SymbolRef, Name: "x", Value: 3}, obj.Ref("x", 3, false))
}
