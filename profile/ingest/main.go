// Profiling:
// go build ./profile/ingest
// go tool pprof -http=":8000" -nodefraction=0.001 ./ingest mem.pprof

package main

import (
	"fmt"

	"github.com/gekko3d/lightstore"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
)

func main() {
	rounds := 50
	batchSize := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, batchSize)
	p.Stop()
}

func run(rounds, batchSize int) {
	for range rounds {
		store := lightstore.NewLightStore()
		reg := lightstore.NewNameRegistry()

		batch := lightstore.LightBatch{}
		names := make([]string, 0, batchSize)
		for i := 0; i < batchSize; i++ {
			id := lightstore.EntityId(i + 1)
			batch.Ids = append(batch.Ids, id)
			batch.Kinds = append(batch.Kinds, lightstore.LightPoint)
			batch.Point = append(batch.Point, lightstore.PointLightParams{
				Diffuse: mgl32.Vec4{1, 1, 1, 1},
				Att:     mgl32.Vec3{0.1, 0.1, 0.1},
				Range:   25,
			})
			names = append(names, fmt.Sprintf("point_%d", i))
		}
		if err := store.BulkAdd(batch); err != nil {
			panic(err)
		}
		if err := reg.BulkAdd(batch.Ids, names); err != nil {
			panic(err)
		}

		total := 0
		store.EachActive(func(id lightstore.EntityId, kind lightstore.LightKind) bool {
			total++
			return true
		})
		if total != batchSize {
			panic("active walk missed entries")
		}

		for _, id := range batch.Ids {
			if err := store.Remove(id); err != nil {
				panic(err)
			}
		}
	}
}
