package tilescreen

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkMap is a 4x3 infinite map, split into 2x2 screens.
const chunkMap = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="30" height="20" tilewidth="8" tileheight="8" infinite="1">
 <properties>
  <property name="screenHeight" type="int" value="2"/>
  <property name="screenWidth" type="int" value="2"/>
 </properties>
 <tileset firstgid="1" source="tiles.tsx"/>
 <layer id="1" name="map" width="30" height="20">
  <data encoding="csv">
   <chunk x="0" y="0" width="4" height="3">
1,2,3,4,
5,6,7,8,
9,10,11,12
</chunk>
  </data>
 </layer>
</map>
`

func writeMap(t *testing.T, dir, name, contents string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, []byte(contents), 0644))
	return file
}

// chunkedMap returns an infinite map with one chunk at the origin.
func chunkedMap(screenWidth, screenHeight, chunkWidth, chunkHeight int, payload string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="30" height="20" tilewidth="8" tileheight="8" infinite="1">
 <properties>
  <property name="screenWidth" type="int" value="%d"/>
  <property name="screenHeight" type="int" value="%d"/>
 </properties>
 <tileset firstgid="1" source="tiles.tsx"/>
 <layer id="1" name="map" width="30" height="20">
  <data encoding="csv">
   <chunk x="0" y="0" width="%d" height="%d">
%s
</chunk>
  </data>
 </layer>
</map>
`, screenWidth, screenHeight, chunkWidth, chunkHeight, payload)
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("")
	require.NoError(t, err)
	assert.Equal(t, BoundsAuto, b)

	b, err = ParseBounds("scan")
	require.NoError(t, err)
	assert.Equal(t, BoundsScan, b)

	b, err = ParseBounds("chunks")
	require.NoError(t, err)
	assert.Equal(t, BoundsChunks, b)
	assert.Equal(t, "chunks", b.String())

	_, err = ParseBounds("diagonal")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	e := New(WithWorkers(0), WithBounds(BoundsChunks), WithLocalIDs(true))
	assert.Equal(t, 1, e.workers)
	assert.Equal(t, BoundsChunks, e.bounds)
	assert.True(t, e.localIDs)
	assert.NotNil(t, e.logger)
}
