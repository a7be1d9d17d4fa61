package stats

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductStats is the per-product rollup shown to administrators.
type ProductStats struct {
	ID                      uuid.UUID `json:"id"`
	OwnerID                 uuid.UUID `json:"ownerId"`
	Owner                   string    `json:"owner"`
	Name                    string    `json:"name"`
	TotalLessonsWatched     int64     `json:"totalLessonsWatched"`
	TotalSecondsWatched     int64     `json:"totalSecondsWatched"`
	TotalStudentsWithAccess int64     `json:"totalStudentsWithAccess"`
	PercentageOfPurchase    float64   `json:"percentageOfPurchase"`
}

type rollupRow struct {
	ID                      uuid.UUID
	OwnerID                 uuid.UUID
	Owner                   string
	Name                    string
	TotalLessonsWatched     int64
	TotalSecondsWatched     int64
	TotalStudentsWithAccess int64
	TotalUsers              int64
}

// Each lesson appears once per product through the lesson_products primary key,
// so a view is counted at most once per product.
const rollupColumns = `p.id AS id, p.owner_id AS owner_id, u.username AS owner, p.name AS name,
	(SELECT COUNT(*) FROM lesson_views lv
		JOIN lesson_products lp ON lp.lesson_id = lv.lesson_id
		WHERE lp.product_id = p.id AND lv.watched = ?) AS total_lessons_watched,
	(SELECT CAST(COALESCE(SUM(lv.viewed_time_seconds), 0) AS BIGINT) FROM lesson_views lv
		JOIN lesson_products lp ON lp.lesson_id = lv.lesson_id
		WHERE lp.product_id = p.id) AS total_seconds_watched,
	(SELECT COUNT(DISTINCT pa.user_id) FROM product_accesses pa
		WHERE pa.product_id = p.id) AS total_students_with_access,
	(SELECT COUNT(*) FROM users) AS total_users`

// All computes the rollup for every product in one statement, so the user total
// and the per-product counts come from the same snapshot.
func All(db *gorm.DB) ([]ProductStats, error) {
	var rows []rollupRow
	if err := rollupQuery(db).Order("p.created_at, p.id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ProductStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toStats())
	}
	return out, nil
}

// ForProduct computes the rollup of a single product.
func ForProduct(db *gorm.DB, productID uuid.UUID) (ProductStats, error) {
	var rows []rollupRow
	if err := rollupQuery(db).Where("p.id = ?", productID).Scan(&rows).Error; err != nil {
		return ProductStats{}, err
	}
	if len(rows) == 0 {
		return ProductStats{}, ErrProductNotFound
	}
	return rows[0].toStats(), nil
}

func rollupQuery(db *gorm.DB) *gorm.DB {
	return db.Table("products AS p").
		Select(rollupColumns, true).
		Joins("JOIN users u ON u.id = p.owner_id")
}

func (r rollupRow) toStats() ProductStats {
	return ProductStats{
		ID:                      r.ID,
		OwnerID:                 r.OwnerID,
		Owner:                   r.Owner,
		Name:                    r.Name,
		TotalLessonsWatched:     r.TotalLessonsWatched,
		TotalSecondsWatched:     r.TotalSecondsWatched,
		TotalStudentsWithAccess: r.TotalStudentsWithAccess,
		PercentageOfPurchase:    PercentageOfPurchase(r.TotalStudentsWithAccess, r.TotalUsers),
	}
}

// PercentageOfPurchase returns students*100/totalUsers rounded half-up to one
// decimal place, or 0 when there are no users.
func PercentageOfPurchase(students, totalUsers int64) float64 {
	if totalUsers <= 0 {
		return 0
	}
	return decimal.NewFromInt(students).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(totalUsers), 1).
		InexactFloat64()
}
