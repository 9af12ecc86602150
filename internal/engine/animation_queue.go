package engine

import (
	"container/heap"
	"labyrinth-server/internal/domain"
)

// AnimItem - анимированный объект в блоке сетки
type AnimItem struct {
	BlockIndex int
	Frame      int    // Текущий кадр
	Frames     int    // Всего кадров
	FrameTicks uint64 // Тиков на кадр
	NextTick   uint64 // Приоритет. Тик следующей смены кадра.
	Index      int    // Индекс в куче (нужен для удаления)
}

// animHeap реализует heap.Interface, раньше всех - ближайшая смена кадра
type animHeap []*AnimItem

func (h animHeap) Len() int { return len(h) }

func (h animHeap) Less(i, j int) bool {
	if h[i].NextTick == h[j].NextTick {
		return h[i].BlockIndex < h[j].BlockIndex
	}
	return h[i].NextTick < h[j].NextTick
}

func (h animHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *animHeap) Push(x interface{}) {
	item := x.(*AnimItem)
	item.Index = len(*h)
	*h = append(*h, item)
}

func (h *animHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*h = old[0 : n-1]
	return item
}

// AnimationQueue - кадры декоративных объектов. Второй проход Update.
type AnimationQueue struct {
	heap    animHeap
	byBlock map[int]*AnimItem
}

func NewAnimationQueue() *AnimationQueue {
	return &AnimationQueue{
		heap:    make(animHeap, 0),
		byBlock: make(map[int]*AnimItem),
	}
}

// Track ставит объект блока в очередь, если у него больше одного кадра
func (q *AnimationQueue) Track(blockIdx int, obj *domain.ObjectDescriptor, now uint64) {
	q.Untrack(blockIdx)
	if obj == nil || obj.AnimationFrames < 2 {
		return
	}
	ticks := uint64(obj.FrameTicks)
	if ticks == 0 {
		ticks = 1
	}
	item := &AnimItem{
		BlockIndex: blockIdx,
		Frames:     obj.AnimationFrames,
		FrameTicks: ticks,
		NextTick:   now + ticks,
	}
	heap.Push(&q.heap, item)
	q.byBlock[blockIdx] = item
}

// Untrack убирает блок из очереди
func (q *AnimationQueue) Untrack(blockIdx int) {
	item, ok := q.byBlock[blockIdx]
	if !ok {
		return
	}
	heap.Remove(&q.heap, item.Index)
	delete(q.byBlock, blockIdx)
}

// Advance переключает кадры всех объектов, чье время пришло
func (q *AnimationQueue) Advance(tick uint64) int {
	changed := 0
	for q.heap.Len() > 0 && q.heap[0].NextTick <= tick {
		item := q.heap[0]
		// Пропущенные кадры при больших шагах Update
		steps := (tick-item.NextTick)/item.FrameTicks + 1
		item.Frame = (item.Frame + int(steps%uint64(item.Frames))) % item.Frames
		item.NextTick += steps * item.FrameTicks
		heap.Fix(&q.heap, 0)
		changed++
	}
	return changed
}

// Peek возвращает ближайший элемент (без удаления)
func (q *AnimationQueue) Peek() *AnimItem {
	if q.heap.Len() == 0 {
		return nil
	}
	return q.heap[0]
}

func (q *AnimationQueue) Len() int { return q.heap.Len() }

// Frames возвращает текущие кадры по индексу блока
func (q *AnimationQueue) Frames() map[int]int {
	if len(q.byBlock) == 0 {
		return nil
	}
	out := make(map[int]int, len(q.byBlock))
	for idx, item := range q.byBlock {
		out[idx] = item.Frame
	}
	return out
}
