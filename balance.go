package fintrack

// Balances maps a registry name (account or person) to its derived amount.
type Balances map[string]Money

// Total returns the sum of all balances.
func (b Balances) Total() Money {
	var total Money
	for _, m := range b {
		total = total.Add(m)
	}
	return total
}

// Get returns the balance of name, zero when name is not tracked.
func (b Balances) Get(name string) Money { return b[name] }

// add folds amount into name only if name is already tracked: names that are
// not registered are dropped from the output.
func (b Balances) add(name string, amount Money) {
	if cur, ok := b[name]; ok {
		b[name] = cur.Add(amount)
	}
}

// DeriveAccountBalances reduces transactions into a balance per account.
//
// Every name in accounts starts at zero. The fold is commutative, so the
// order of transactions is irrelevant.
func DeriveAccountBalances(transactions []Transaction, accounts []string) Balances {
	balances := make(Balances, len(accounts))
	for _, acc := range accounts {
		balances[acc] = Money{}
	}
	for _, tx := range transactions {
		amount := tx.Amount.Abs()
		switch tx.Type {
		case TypeIncome, TypeRepayment:
			balances.add(tx.Account, amount)
		case TypeExpense, TypeCredit:
			balances.add(tx.Account, amount.Neg())
		case TypeAdjustment:
			if !tx.PersonAdjustment {
				balances.add(tx.Account, tx.Amount) // already signed
			}
		case TypeTransfer:
			balances.add(tx.Account, amount.Neg())
			// A transfer without destination is a plain debit.
			if tx.ToAccount != "" {
				balances.add(tx.ToAccount, amount)
			}
		}
	}
	return balances
}

// DerivePersonCredits reduces transactions into the net credit of each person.
// A positive credit means the person owes the user.
func DerivePersonCredits(transactions []Transaction, people []string) Balances {
	credits := make(Balances, len(people))
	for _, p := range people {
		credits[p] = Money{}
	}
	for _, tx := range transactions {
		if tx.Person == "" || !tx.Type.affectsBalances() {
			continue
		}
		switch tx.Type {
		case TypeCredit:
			credits.add(tx.Person, tx.Amount.Abs())
		case TypeRepayment:
			credits.add(tx.Person, tx.Amount.Abs().Neg())
		case TypeAdjustment:
			if tx.PersonAdjustment {
				credits.add(tx.Person, tx.Amount)
			}
		}
	}
	return credits
}
