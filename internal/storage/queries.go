package storage

const (
	// Reference data queries
	GetCountryQuery = `
		SELECT code, currency, max_amount
		FROM countries
		WHERE code = $1
	`

	GetFXPByIDQuery = `
		SELECT id, bic, name
		FROM fxps
		WHERE id = $1
	`

	// Курсы по паре валют, лучший курс первым
	ListRatesForPairQuery = `
		SELECT f.id, f.bic, f.name, r.base_rate, r.base_spread_bps
		FROM fx_rates r
		JOIN fxps f ON f.id = r.fxp_id
		WHERE r.source_currency = $1
		  AND r.destination_currency = $2
		  AND f.active
		ORDER BY r.base_rate DESC
	`

	// Плечи от опорной валюты для синтетического кросс-курса
	ListPivotLegsQuery = `
		SELECT f.id, f.bic, f.name, r.destination_currency, r.base_rate, r.base_spread_bps
		FROM fx_rates r
		JOIN fxps f ON f.id = r.fxp_id
		WHERE r.source_currency = $1
		  AND r.destination_currency = ANY($2)
		  AND f.active
		ORDER BY f.id
	`

	ListTiersQuery = `
		SELECT min_amount, max_amount, improvement_bps
		FROM fxp_tiers
		WHERE fxp_id = $1 AND source_currency = $2 AND destination_currency = $3
		ORDER BY min_amount DESC
	`

	GetPSPImprovementQuery = `
		SELECT improvement_bps
		FROM fxp_psp_improvements
		WHERE fxp_id = $1 AND psp_bic = $2
	`

	GetSAPAccountQuery = `
		SELECT fxp_id, currency, sap_bic, sap_name, account_id
		FROM sap_accounts
		WHERE fxp_id = $1 AND currency = $2
	`

	GetFeeFormulaQuery = `
		SELECT currency, fixed, percent, min_fee, max_fee
		FROM psp_fee_formulas
		WHERE currency = $1
	`

	// Quote queries
	CreateQuoteQuery = `
		INSERT INTO quotes (
			id, fxp_id, requesting_psp_bic, source_country, source_currency,
			destination_country, destination_currency, rate_kind, base_rate, base_spread_bps,
			tier_improvement_bps, psp_improvement_bps, final_rate, requested_amount, amount_type,
			source_interbank_amount, destination_interbank_amount, creditor_amount,
			destination_psp_fee, capped_to_max_amount, status, created_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`

	GetQuoteByIDQuery = `
		SELECT q.id, q.fxp_id, f.bic, f.name, q.requesting_psp_bic, q.source_country, q.source_currency,
		       q.destination_country, q.destination_currency, q.rate_kind, q.base_rate, q.base_spread_bps,
		       q.tier_improvement_bps, q.psp_improvement_bps, q.final_rate, q.requested_amount, q.amount_type,
		       q.source_interbank_amount, q.destination_interbank_amount, q.creditor_amount,
		       q.destination_psp_fee, q.capped_to_max_amount, q.status, q.created_at, q.expires_at
		FROM quotes q
		JOIN fxps f ON f.id = q.fxp_id
		WHERE q.id = $1
	`

	// Котировка помечается использованной один раз
	ConsumeQuoteQuery = `
		UPDATE quotes
		SET status = 'CONSUMED'
		WHERE id = $1 AND status = 'ACTIVE'
	`

	// Payment queries
	ActivePaymentExistsQuery = `
		SELECT EXISTS(
			SELECT 1
			FROM payments
			WHERE uetr = $1 AND status <> 'REJECTED'
		)
	`

	// Уникальный частичный индекс отсекает повторный UETR при гонке
	CreatePaymentQuery = `
		INSERT INTO payments (
			uetr, message_id, end_to_end_id, quote_id, source_psp_bic, destination_psp_bic,
			debtor_name, debtor_account, creditor_name, creditor_account,
			source_amount, source_currency, destination_amount, destination_currency,
			exchange_rate, status, status_reason_code, created_at, updated_at
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18
		)
		ON CONFLICT (uetr) WHERE status <> 'REJECTED' DO NOTHING
		RETURNING id
	`

	GetPaymentByUETRQuery = `
		SELECT id, uetr, message_id, end_to_end_id, COALESCE(quote_id, ''), source_psp_bic, destination_psp_bic,
		       debtor_name, debtor_account, creditor_name, creditor_account,
		       source_amount, source_currency, destination_amount, destination_currency,
		       exchange_rate, status, status_reason_code, created_at, updated_at, completed_at
		FROM payments
		WHERE uetr = $1
		ORDER BY (status = 'REJECTED'), id DESC
		LIMIT 1
	`

	GetActivePaymentStatusForUpdateQuery = `
		SELECT status
		FROM payments
		WHERE uetr = $1 AND status <> 'REJECTED'
		FOR UPDATE
	`

	// Переход статуса только из ожидаемого состояния
	TransitionPaymentQuery = `
		UPDATE payments
		SET status = $2,
		    updated_at = $4,
		    completed_at = CASE WHEN $2 = 'COMPLETED' THEN $4 ELSE completed_at END
		WHERE uetr = $1 AND status = $3
	`

	// Event queries
	InsertEventQuery = `
		INSERT INTO payment_events (event_id, uetr, event_type, actor, data, messages, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	ListEventsByUETRQuery = `
		SELECT id, event_id, uetr, event_type, actor, data, messages, occurred_at, published_at
		FROM payment_events
		WHERE uetr = $1
		ORDER BY id
	`

	FetchUnpublishedEventsQuery = `
		SELECT id, event_id, uetr, event_type, actor, data, messages, occurred_at, published_at
		FROM payment_events
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	MarkEventPublishedQuery = `
		UPDATE payment_events
		SET published_at = $1
		WHERE id = $2
	`

	// Recall queries
	CreateRecallQuery = `
		INSERT INTO recall_cases (
			recall_id, original_uetr, reason_code, reason_text, recall_type,
			original_amount, requested_by, status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	recallColumns = `
		recall_id, original_uetr, reason_code, reason_text, recall_type, original_amount,
		requested_by, responded_by, status, response_reason, submitted_at, responded_at,
		resolution_at, completed_at, return_uetr
	`

	GetLatestRecallByUETRQuery = `
		SELECT ` + recallColumns + `
		FROM recall_cases
		WHERE original_uetr = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`

	GetLatestRecallByUETRForUpdateQuery = `
		SELECT ` + recallColumns + `
		FROM recall_cases
		WHERE original_uetr = $1
		ORDER BY submitted_at DESC
		LIMIT 1
		FOR UPDATE
	`

	ListRecallsQuery = `
		SELECT ` + recallColumns + `
		FROM recall_cases
		WHERE ($1 = '' OR status = $1)
		ORDER BY submitted_at DESC
		LIMIT $2
	`

	// Ответ стороны получателя, только из открытых состояний
	UpdateRecallStatusQuery = `
		UPDATE recall_cases
		SET status = $2,
		    responded_by = $3,
		    response_reason = $4,
		    responded_at = CASE WHEN $6 THEN responded_at ELSE $5 END,
		    resolution_at = CASE WHEN $6 THEN $5 ELSE resolution_at END
		WHERE recall_id = $1 AND status IN ('PENDING', 'PENDING_INFO')
	`

	CompleteRecallQuery = `
		UPDATE recall_cases
		SET status = 'COMPLETED',
		    completed_at = $2,
		    return_uetr = $3
		WHERE recall_id = $1 AND status = 'ACCEPTED'
	`

	// Return queries
	CreateReturnQuery = `
		INSERT INTO return_payments (
			return_uetr, original_uetr, reason_code, reason_text, amount, currency,
			instruction_priority, recall_id, received_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	ListReturnsQuery = `
		SELECT return_uetr, original_uetr, reason_code, reason_text, amount, currency,
		       instruction_priority, recall_id, received_at
		FROM return_payments
		ORDER BY received_at DESC
		LIMIT $1
	`
)
