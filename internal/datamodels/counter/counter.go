package counter

// 连续编号计数器名称
const (
	SeqUsuarios = "usuarios"
	SeqPedidos  = "pedidos"
)

// Counter 持久化的连续编号计数器。
// 编号分配在实体创建事务内完成：对计数器行做一次原子自增再回读，
// 行锁持有到事务提交，并发创建因此串行，编号不会重复也不会回退。
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int64  `gorm:"not null"`
}
