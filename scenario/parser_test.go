package scenario

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func gotoBytes(targetOffset uint32) []byte {
	b := make([]byte, 12)
	b[0] = '#'
	b[1] = 0 // modtype
	b[2] = 1 // module
	binary.LittleEndian.PutUint16(b[3:], 0x0000)
	binary.LittleEndian.PutUint16(b[5:], 0)
	b[7] = 0 // overload
	binary.LittleEndian.PutUint32(b[8:], targetOffset)
	return b
}

// TestGotoResolvesToElementAtTargetOffset implements spec.md §8 concrete
// scenario 4: a Goto's target byte offset must resolve to the index of
// the element whose byte offset equals it.
func TestGotoResolvesToElementAtTargetOffset(t *testing.T) {
	var data []byte
	data = append(data, gotoBytes(13)...) // element 0, offset 0, length 12
	data = append(data, ',')              // element 1, offset 12
	data = append(data, ',')              // element 2, offset 13

	script, err := Parse(data, nil)
	require.NoError(t, err)
	require.Len(t, script.Elements, 3)

	cmd, ok := script.Elements[0].(*CommandElement)
	require.True(t, ok)
	require.Equal(t, CommandGoto, cmd.Kind)
	require.True(t, cmd.Target.Resolved)
	require.Equal(t, ElementHandle(2), cmd.Target.Handle)
}

func TestInvalidTargetIsFatal(t *testing.T) {
	data := gotoBytes(999)
	_, err := Parse(data, nil)
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func selectHeaderBytes(argc uint16) []byte {
	b := make([]byte, 8)
	b[0] = '#'
	b[1] = 0 // modtype
	b[2] = 2 // module
	binary.LittleEndian.PutUint16(b[3:], 0x0000)
	binary.LittleEndian.PutUint16(b[5:], argc)
	b[7] = 0 // overload
	return b
}

func junkRecord(line uint16) []byte {
	b := make([]byte, 3)
	b[0] = '\n'
	binary.LittleEndian.PutUint16(b[1:], line)
	return b
}

// TestSelectTolerateUselessJunk implements spec.md §8 concrete scenario 5:
// a Select with argc=2 followed by five trailing `\n u16` records (three
// spurious) parses to exactly two options without error.
func TestSelectTolerateUselessJunk(t *testing.T) {
	var data []byte
	data = append(data, selectHeaderBytes(2)...)
	data = append(data, '{')
	for i := uint16(1); i <= 5; i++ {
		data = append(data, junkRecord(i)...)
	}
	data = append(data, '}')

	script, err := Parse(data, nil)
	require.NoError(t, err)
	require.Len(t, script.Elements, 1)

	cmd, ok := script.Elements[0].(*CommandElement)
	require.True(t, ok)
	require.Equal(t, CommandSelect, cmd.Kind)
	require.Len(t, cmd.Options, 2)
	require.Equal(t, 3, cmd.JunkRecords)
	require.EqualValues(t, 1, cmd.Options[0].Line)
	require.EqualValues(t, 2, cmd.Options[1].Line)
}

func TestEntrypointDisambiguation(t *testing.T) {
	kidoku := []uint32{500, 1_000_007}
	data := []byte{'@', 0x00, 0x00, '@', 0x01, 0x00}
	script, err := Parse(data, kidoku)
	require.NoError(t, err)
	require.Len(t, script.Elements, 2)

	meta0 := script.Elements[0].(MetadataElement)
	require.Equal(t, MetaKidoku, meta0.Kind)

	meta1 := script.Elements[1].(MetadataElement)
	require.Equal(t, MetaEntrypoint, meta1.Kind)
	require.EqualValues(t, 7, meta1.Value)
	require.Equal(t, ElementHandle(1), script.Entrypoints[7])
}

func TestSortedEntrypointsOrdersByID(t *testing.T) {
	kidoku := []uint32{1_000_005, 1_000_001, 1_000_009}
	data := []byte{'@', 0x00, 0x00, '@', 0x01, 0x00, '@', 0x02, 0x00}
	script, err := Parse(data, kidoku)
	require.NoError(t, err)

	labels := script.SortedEntrypoints()
	require.Len(t, labels, 3)
	require.Equal(t, []int{1, 5, 9}, []int{labels[0].ID, labels[1].ID, labels[2].ID})
	require.Equal(t, ElementHandle(1), labels[0].Handle)
}

func TestTextoutStopsAtDelimiter(t *testing.T) {
	text := []byte("hello")
	data := append(append([]byte{}, text...), gotoBytes(uint32(len(text)))...)

	script, err := Parse(data, nil)
	require.NoError(t, err)
	require.Len(t, script.Elements, 2)
	tex := script.Elements[0].(TextoutElement)
	require.Equal(t, "hello", tex.Text)
}

func TestExpressionElementLazyParse(t *testing.T) {
	data := append([]byte{'$', 0xff, 5, 0, 0, 0}, 0x00)
	script, err := Parse(data, nil)
	require.NoError(t, err)
	require.Len(t, script.Elements, 1)

	exprEl := script.Elements[0].(*ExpressionElement)
	p, err := exprEl.Parsed()
	require.NoError(t, err)
	require.NotNil(t, p)
}
