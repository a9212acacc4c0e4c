package models

import (
	"math"
	"testing"
)

const eps = 1e-9

// 任意插入序列收尾后，运行均值都要等于精确均值
func TestAddRatingSequenceMatchesExactMean(t *testing.T) {
	cases := [][]int{
		{5},
		{1, 2, 3, 4, 5},
		{5, 5, 5, 5},
		{1, 5, 1, 5, 1, 5, 1},
		{3, 3, 4, 2, 5, 1, 2, 4, 4, 5, 3, 1},
	}
	for _, seq := range cases {
		g := &Game{}
		sum := 0
		for _, r := range seq {
			g.AddRating(r)
			sum += r
		}
		want := float64(sum) / float64(len(seq))
		if math.Abs(g.Star-want) > eps {
			t.Fatalf("seq %v: star=%v want %v", seq, g.Star, want)
		}
		if g.ReviewCnt != uint(len(seq)) {
			t.Fatalf("seq %v: review_cnt=%d want %d", seq, g.ReviewCnt, len(seq))
		}
	}
}

func TestAdjustRatingShiftsByDelta(t *testing.T) {
	g := &Game{}
	for _, r := range []int{4, 2, 3} {
		g.AddRating(r)
	}
	before := g.Star
	if err := g.AdjustRating(2, 5); err != nil {
		t.Fatal(err)
	}
	want := before + float64(5-2)/3
	if math.Abs(g.Star-want) > eps {
		t.Fatalf("star=%v want %v", g.Star, want)
	}
	if g.ReviewCnt != 3 {
		t.Fatalf("review_cnt changed on adjust: %d", g.ReviewCnt)
	}
}

func TestAdjustRatingRejectsEmptyAggregate(t *testing.T) {
	g := &Game{}
	if err := g.AdjustRating(3, 5); err != ErrNoCountedReviews {
		t.Fatalf("want ErrNoCountedReviews, got %v", err)
	}
	if g.Star != 0 || g.ReviewCnt != 0 {
		t.Fatalf("aggregate mutated on rejected adjust: star=%v cnt=%d", g.Star, g.ReviewCnt)
	}
}

// 删到空集合时无论删的是几分都要干净归零
func TestRemoveRatingLastReviewResets(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		g := &Game{}
		g.AddRating(r)
		if err := g.RemoveRating(r); err != nil {
			t.Fatal(err)
		}
		if g.Star != 0 || g.ReviewCnt != 0 {
			t.Fatalf("remove last (r=%d): star=%v cnt=%d, want 0/0", r, g.Star, g.ReviewCnt)
		}
	}
}

func TestRemoveRatingRejectsEmptyAggregate(t *testing.T) {
	g := &Game{}
	if err := g.RemoveRating(4); err != ErrNoCountedReviews {
		t.Fatalf("want ErrNoCountedReviews, got %v", err)
	}
}

// 规格里的完整生命周期：4 → 2 → 改4为5 → 删2，最终 star=5 cnt=1
func TestRatingLifecycleScenario(t *testing.T) {
	g := &Game{}
	g.AddRating(4)
	if g.Star != 4 || g.ReviewCnt != 1 {
		t.Fatalf("after A: star=%v cnt=%d", g.Star, g.ReviewCnt)
	}
	g.AddRating(2)
	if math.Abs(g.Star-3) > eps || g.ReviewCnt != 2 {
		t.Fatalf("after B: star=%v cnt=%d", g.Star, g.ReviewCnt)
	}
	if err := g.AdjustRating(4, 5); err != nil {
		t.Fatal(err)
	}
	if math.Abs(g.Star-3.5) > eps || g.ReviewCnt != 2 {
		t.Fatalf("after edit: star=%v cnt=%d", g.Star, g.ReviewCnt)
	}
	if err := g.RemoveRating(2); err != nil {
		t.Fatal(err)
	}
	if math.Abs(g.Star-5) > eps || g.ReviewCnt != 1 {
		t.Fatalf("after delete: star=%v cnt=%d, want 5/1", g.Star, g.ReviewCnt)
	}
}
