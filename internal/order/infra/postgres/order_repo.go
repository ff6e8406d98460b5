package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vietcart/ordercore/internal/order/app"
	"github.com/vietcart/ordercore/internal/order/domain"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

const insertOrderQuery = `
INSERT INTO orders (
	user_id, guest_email, guest_name,
	ship_full_name, ship_address, ship_city, ship_phone,
	payment_method, currency,
	items_price, shipping_price, tax_price, total_amount,
	payment_status
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
RETURNING id, created_at, updated_at`

const insertLineQuery = `
INSERT INTO order_lines (order_id, product_id, name, image, unit_price, quantity)
VALUES ($1,$2,$3,$4,$5,$6)`

func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order

	err := r.execTX(ctx, func(tx *sql.Tx) error {
		var (
			userID     sql.NullString
			guestEmail sql.NullString
			guestName  sql.NullString
		)
		if order.Owner.IsRegistered() {
			userID = sql.NullString{String: order.Owner.UserID, Valid: true}
		} else if order.Owner.Guest != nil {
			guestEmail = sql.NullString{String: order.Owner.Guest.Email, Valid: true}
			guestName = sql.NullString{String: order.Owner.Guest.FullName, Valid: true}
		}

		var orderID uuid.UUID
		err := tx.QueryRowContext(ctx, insertOrderQuery,
			userID, guestEmail, guestName,
			order.ShippingAddress.FullName, order.ShippingAddress.Address,
			order.ShippingAddress.City, order.ShippingAddress.PhoneNumber,
			string(order.PaymentMethod), order.Currency,
			order.ItemsPrice, order.ShippingPrice, order.TaxPrice, order.TotalAmount,
			string(domain.PaymentStatusPending),
		).Scan(&orderID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, ln := range order.Lines {
			pUUID, err := uuid.Parse(ln.ProductID)
			if err != nil {
				return fmt.Errorf("line %d: invalid product UUID: %w", i, err)
			}
			if _, err := tx.ExecContext(ctx, insertLineQuery,
				orderID, pUUID, ln.Name, ln.Image, ln.UnitPrice, ln.Quantity,
			); err != nil {
				return fmt.Errorf("failed to insert line %d: %w", i, err)
			}
		}

		order.ID = orderID.String()
		order.PaymentStatus = domain.PaymentStatusPending
		created = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

const selectOrderQuery = `
SELECT id, user_id, guest_email, guest_name,
	ship_full_name, ship_address, ship_city, ship_phone,
	payment_method, currency,
	items_price, shipping_price, tax_price, total_amount,
	payment_status,
	payment_result_id, payment_result_status, payment_result_update_time, payment_result_email,
	is_delivered, delivered_at, created_at, updated_at
FROM orders`

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, selectOrderQuery+` WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := r.lines(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines
	return order, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, selectOrderQuery+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, selectOrderQuery + ` ORDER BY created_at DESC`)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		orderID, err := uuid.Parse(out[i].ID)
		if err != nil {
			return nil, err
		}
		lines, err := r.lines(ctx, orderID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

const settleOrderQuery = `
UPDATE orders
SET payment_status = $2,
	payment_result_id = $3,
	payment_result_status = $4,
	payment_result_update_time = $5,
	payment_result_email = $6,
	updated_at = $7
WHERE id = $1 AND payment_status = 'pending'`

func (r *OrderRepo) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (domain.Order, error) {
	return r.settle(ctx, id, domain.PaymentStatusPaid, result, at)
}

func (r *OrderRepo) MarkFailed(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (domain.Order, error) {
	return r.settle(ctx, id, domain.PaymentStatusFailed, result, at)
}

// settle performs the conditional pending -> paid/failed write. The WHERE
// clause on the current status is what guarantees a single winner under
// concurrent confirmations.
func (r *OrderRepo) settle(ctx context.Context, id string, status domain.PaymentStatus, result domain.PaymentResult, at time.Time) (domain.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, settleOrderQuery,
		orderID, string(status),
		result.ID, result.Status, result.UpdateTime, result.PayerEmail, at,
	)
	if err != nil {
		return domain.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		current, err := r.Get(ctx, id)
		if err != nil {
			return domain.Order{}, err
		}
		if current.PaymentStatus == domain.PaymentStatusPaid {
			return domain.Order{}, app.ErrAlreadyPaid
		}
		return domain.Order{}, app.ErrNotPayable
	}

	return r.Get(ctx, id)
}

const markDeliveredQuery = `
UPDATE orders
SET is_delivered = true, delivered_at = $2, updated_at = $2
WHERE id = $1 AND is_delivered = false`

func (r *OrderRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (domain.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, markDeliveredQuery, orderID, at)
	if err != nil {
		return domain.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, app.ErrAlreadyDelivered
	}

	return r.Get(ctx, id)
}

const selectLinesQuery = `
SELECT product_id, name, image, unit_price, quantity
FROM order_lines
WHERE order_id = $1
ORDER BY id`

func (r *OrderRepo) lines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, selectLinesQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var (
			ln  domain.OrderLine
			pid uuid.UUID
		)
		if err := rows.Scan(&pid, &ln.Name, &ln.Image, &ln.UnitPrice, &ln.Quantity); err != nil {
			return nil, err
		}
		ln.ProductID = pid.String()
		out = append(out, ln)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order       domain.Order
		id          uuid.UUID
		userID      sql.NullString
		guestEmail  sql.NullString
		guestName   sql.NullString
		method      string
		status      string
		prID        sql.NullString
		prStatus    sql.NullString
		prTime      sql.NullString
		prEmail     sql.NullString
		deliveredAt sql.NullTime
	)

	err := row.Scan(
		&id, &userID, &guestEmail, &guestName,
		&order.ShippingAddress.FullName, &order.ShippingAddress.Address,
		&order.ShippingAddress.City, &order.ShippingAddress.PhoneNumber,
		&method, &order.Currency,
		&order.ItemsPrice, &order.ShippingPrice, &order.TaxPrice, &order.TotalAmount,
		&status,
		&prID, &prStatus, &prTime, &prEmail,
		&order.IsDelivered, &deliveredAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	order.ID = id.String()
	order.PaymentMethod = domain.PaymentMethod(method)
	order.PaymentStatus = domain.PaymentStatus(status)

	if userID.Valid {
		order.Owner = domain.RegisteredOwner(userID.String)
	} else {
		order.Owner = domain.GuestOwner(guestEmail.String, guestName.String)
	}

	if prID.Valid || prStatus.Valid {
		order.PaymentResult = &domain.PaymentResult{
			ID:         prID.String,
			Status:     prStatus.String,
			UpdateTime: prTime.String,
			PayerEmail: prEmail.String,
		}
	}
	if deliveredAt.Valid {
		at := deliveredAt.Time
		order.DeliveredAt = &at
	}

	return order, nil
}
