package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
		lastBounds    image.Rectangle
	}{
		{"exact fit", 64, 64, 32, 4, image.Rect(32, 32, 64, 64)},
		{"partial edge tiles", 70, 33, 32, 6, image.Rect(64, 32, 70, 33)},
		{"single tile", 10, 10, 64, 1, image.Rect(0, 0, 10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}
			if last := tiles[len(tiles)-1].Bounds; last != tt.lastBounds {
				t.Errorf("Expected last tile %v, got %v", tt.lastBounds, last)
			}

			// Tiles cover every pixel exactly once
			covered := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}
			for i, n := range covered {
				if n != 1 {
					t.Fatalf("Pixel %d covered %d times", i, n)
				}
			}
		})
	}
}

func TestNewTileGrid_Degenerate(t *testing.T) {
	if tiles := NewTileGrid(0, 10, 8); len(tiles) != 0 {
		t.Errorf("Expected no tiles for zero width, got %d", len(tiles))
	}
	if tiles := NewTileGrid(10, 10, 0); len(tiles) != 0 {
		t.Errorf("Expected no tiles for zero tile size, got %d", len(tiles))
	}
}

func TestWorkerPool_RendersEveryTask(t *testing.T) {
	rt := NewRaytracer(sphereScene(), 20, 20)
	tiles := NewTileGrid(20, 20, 8)

	pool := NewWorkerPool(rt, len(tiles), 4)
	if pool.GetNumWorkers() != 4 {
		t.Fatalf("Expected 4 workers, got %d", pool.GetNumWorkers())
	}
	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	seen := make(map[int]bool)
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		if result.Error != nil {
			t.Fatalf("Unexpected error: %v", result.Error)
		}
		if len(result.Pixels) != result.Tile.Bounds.Dx()*result.Tile.Bounds.Dy() {
			t.Errorf("Tile %d: expected %d pixels, got %d", result.TaskID, result.Tile.Bounds.Dx()*result.Tile.Bounds.Dy(), len(result.Pixels))
		}
		seen[result.TaskID] = true
	}
	pool.Stop()
	pool.Stop()

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d distinct results, got %d", len(tiles), len(seen))
	}
}
