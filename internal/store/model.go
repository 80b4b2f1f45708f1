package store

type Snapshot struct {
	SnapshotID    string `gorm:"column:snapshot_id;type:text;primaryKey"`
	Seed          uint64 `gorm:"column:seed;not null"`
	RangeStart    string `gorm:"column:range_start;type:text;not null"`
	RangeEnd      string `gorm:"column:range_end;type:text;not null"`
	SalesCount    int    `gorm:"column:sales_count;not null"`
	CustomerCount int    `gorm:"column:customer_count;not null"`
	CreatedAt     string `gorm:"column:created_at;type:text;not null"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}

type Sale struct {
	SaleID     uint64  `gorm:"column:sale_id;primaryKey;autoIncrement"`
	SnapshotID string  `gorm:"column:snapshot_id;type:text;not null;index"`
	Seq        int     `gorm:"column:seq;not null"`
	Date       string  `gorm:"column:date;type:text;not null"`
	Product    string  `gorm:"column:product;type:text;not null"`
	Category   string  `gorm:"column:category;type:text;not null"`
	Price      float64 `gorm:"column:price;not null"`
	Quantity   int     `gorm:"column:quantity;not null"`
	Revenue    float64 `gorm:"column:revenue;not null"`
	Discount   float64 `gorm:"column:discount;not null"`
	Region     string  `gorm:"column:region;type:text;not null"`
	CustomerID int     `gorm:"column:customer_id;not null"`
}

func (Sale) TableName() string {
	return "sales"
}

type Customer struct {
	SnapshotID  string `gorm:"column:snapshot_id;type:text;not null;primaryKey"`
	CustomerID  int    `gorm:"column:customer_id;not null;primaryKey"`
	Seq         int    `gorm:"column:seq;not null"`
	Age         int    `gorm:"column:age;not null"`
	Gender      string `gorm:"column:gender;type:text;not null"`
	JoinDate    string `gorm:"column:join_date;type:text;not null"`
	LoyaltyTier string `gorm:"column:loyalty_tier;type:text;not null"`
}

func (Customer) TableName() string {
	return "customers"
}
