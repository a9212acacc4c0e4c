package models

import "errors"

// 运行均值的维护-只做增量更新，任何时候都不从全部评价重算
// 三个操作都必须在对 games 行加锁的事务里执行，否则并发下均值会漂移

var ErrNoCountedReviews = errors.New("no counted reviews on this game")

// AddRating 新评价入账：star += (r - star)/(cnt+1)，再把计数+1
// 这里除数用的是自增前的计数-流式均值的标准写法
func (g *Game) AddRating(r int) {
	g.Star = g.Star + (float64(r)-g.Star)/float64(g.ReviewCnt+1)
	g.ReviewCnt++
}

// AdjustRating 评价的分数从 oldR 改为 newR：star += (new - old)/cnt
// 计数不变；聚合器不记得单条评价，旧分数必须由调用方给出
func (g *Game) AdjustRating(oldR, newR int) error {
	if g.ReviewCnt == 0 {
		return ErrNoCountedReviews // 计数为0还在改评价-不变式被破坏，拒绝而不是除零
	}
	g.Star = g.Star + (float64(newR)-float64(oldR))/float64(g.ReviewCnt)
	return nil
}

// RemoveRating 评价出账（软删除时调用）
// cnt==1 时直接清零-避免除零并干净地重置空集合
func (g *Game) RemoveRating(r int) error {
	switch {
	case g.ReviewCnt == 0:
		return ErrNoCountedReviews
	case g.ReviewCnt == 1:
		g.Star = 0
		g.ReviewCnt = 0
	default:
		g.Star = g.Star + (g.Star-float64(r))/float64(g.ReviewCnt-1)
		g.ReviewCnt--
	}
	return nil
}
