package mediaorder

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_HeuristicOnly(t *testing.T) {
	files := []string{
		"IMG_10.jpg",
		"museo-2.jpg",
		"IMG_9.jpg",
		"mercado.jpg",
		"ninos.jpg",
		"museo-10.jpg",
		"portada.jpg",
	}
	got := Order(files, nil, DefaultTable)
	assert.Equal(t, []string{
		"portada.jpg",
		"ninos.jpg",
		"mercado.jpg",
		"museo-2.jpg",
		"museo-10.jpg",
		"IMG_9.jpg",
		"IMG_10.jpg",
	}, got)
}

func TestOrder_ExplicitWins(t *testing.T) {
	files := []string{"portada.jpg", "z-last.jpg", "ninos.jpg", "a.jpg", "b.jpg"}
	explicit := []string{"b.jpg", "z-last.jpg", "missing.jpg"}

	got := Order(files, explicit, DefaultTable)
	assert.Equal(t, []string{
		"b.jpg",
		"z-last.jpg",
		// unlisted files follow, in heuristic order
		"portada.jpg",
		"ninos.jpg",
		"a.jpg",
	}, got)
}

func TestOrder_ExplicitMatchesBasename(t *testing.T) {
	files := []string{"santiago/hotel-x/2.jpg", "santiago/hotel-x/1.jpg"}
	got := Order(files, []string{"2.jpg", "1.jpg"}, DefaultTable)
	assert.Equal(t, []string{"santiago/hotel-x/2.jpg", "santiago/hotel-x/1.jpg"}, got)
}

func TestOrder_ExplicitDuplicatesUseFirstIndex(t *testing.T) {
	got := Order([]string{"a.jpg", "b.jpg"}, []string{"b.jpg", "a.jpg", "b.jpg"}, DefaultTable)
	assert.Equal(t, []string{"b.jpg", "a.jpg"}, got)
}

func TestOrder_NaturalTieBreak(t *testing.T) {
	files := []string{"foto10.jpg", "Foto2.jpg", "foto1.jpg", "foto2.jpg"}
	got := Order(files, nil, nil)
	assert.Equal(t, []string{"foto1.jpg", "Foto2.jpg", "foto2.jpg", "foto10.jpg"}, got)
}

func TestOrder_DuplicatesCollapse(t *testing.T) {
	got := Order([]string{"a.jpg", "a.jpg", "b.jpg"}, nil, nil)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got)
}

func TestOrder_Empty(t *testing.T) {
	assert.Empty(t, Order(nil, []string{"a.jpg"}, DefaultTable))
}

func TestOrder_DeterministicAcrossInputOrder(t *testing.T) {
	files := []string{
		"portada.jpg", "Plaza.jpg", "plaza.jpg", "museo-1.jpg", "museo-01.jpg",
		"bar.jpg", "cafe.jpg", "IMG_3.jpg", "img_3.jpg", "ninos.png", "z.jpg",
	}
	explicit := []string{"z.jpg", "cafe.jpg"}
	want := Order(files, explicit, DefaultTable)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]string(nil), files...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, Order(shuffled, explicit, DefaultTable))
	}
	assert.Equal(t, "z.jpg", want[0])
	assert.Equal(t, "cafe.jpg", want[1])
}

func TestOrder_ConcurrentCalls(t *testing.T) {
	files := []string{"museo-3.jpg", "museo-1.jpg", "portada.jpg", "IMG_1.jpg"}
	want := Order(files, nil, DefaultTable)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Order(files, nil, DefaultTable))
		}()
	}
	wg.Wait()
}
